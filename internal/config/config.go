package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"chartdesk/internal/charting"
	"chartdesk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Upload  UploadConfig
	View    ViewConfig
	Charts  ChartConfig
	Session SessionConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxBytes int64
}

// ViewConfig holds page rendering settings
type ViewConfig struct {
	DefaultLang string
	PreviewRows int
}

// ChartConfig holds the cardinality guards of the chart planner and validator
type ChartConfig struct {
	CategoryLimit    int
	PieLimit         int
	GuardFallbackPie bool
}

// SessionConfig holds session settings
type SessionConfig struct {
	TTL time.Duration
}

var supportedLangs = []string{"en", "fa"}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}
	config.Server = *serverConfig

	config.Log = LogConfig{Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))}

	maxMB, err := getEnvInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	config.Upload = UploadConfig{MaxBytes: int64(maxMB) << 20}

	previewRows, err := getEnvInt("PREVIEW_ROWS", 10)
	if err != nil {
		return nil, err
	}
	config.View = ViewConfig{
		DefaultLang: strings.ToLower(getEnvOrDefault("DEFAULT_LANG", "en")),
		PreviewRows: previewRows,
	}

	chartConfig, err := loadChartConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chart configuration")
	}
	config.Charts = *chartConfig

	ttl, err := getEnvDuration("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	config.Session = SessionConfig{TTL: ttl}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() (*ServerConfig, error) {
	timeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: timeout,
	}, nil
}

func loadChartConfig() (*ChartConfig, error) {
	defaults := charting.DefaultPlannerConfig()
	categoryLimit, err := getEnvInt("CHART_CATEGORY_LIMIT", defaults.CategoryLimit)
	if err != nil {
		return nil, err
	}
	pieLimit, err := getEnvInt("CHART_PIE_LIMIT", defaults.PieLimit)
	if err != nil {
		return nil, err
	}
	guard, err := getEnvBool("GUARD_FALLBACK_PIE", defaults.GuardFallbackPie)
	if err != nil {
		return nil, err
	}
	return &ChartConfig{
		CategoryLimit:    categoryLimit,
		PieLimit:         pieLimit,
		GuardFallbackPie: guard,
	}, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be a number")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	switch config.Log.Level {
	case "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid("LOG_LEVEL must be ERROR, WARN, INFO, DEBUG or TRACE")
	}
	if !IsSupportedLang(config.View.DefaultLang) {
		return errors.ConfigInvalid("DEFAULT_LANG must be en or fa")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.View.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if config.Charts.PieLimit <= 0 || config.Charts.CategoryLimit < config.Charts.PieLimit {
		return errors.ConfigInvalid("chart limits must satisfy 0 < CHART_PIE_LIMIT <= CHART_CATEGORY_LIMIT")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// IsSupportedLang reports whether lang has a text table
func IsSupportedLang(lang string) bool {
	for _, l := range supportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Newf(errors.CodeConfigInvalid, "%s must be an integer, got %q", key, value)
	}
	return intValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Newf(errors.CodeConfigInvalid, "%s must be a boolean, got %q", key, value)
	}
	return boolValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Newf(errors.CodeConfigInvalid, "%s must be a duration, got %q", key, value)
	}
	return duration, nil
}
