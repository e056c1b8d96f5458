package ui

import (
	"fmt"
	"net/http"

	"chartdesk/adapters/excel"
	"chartdesk/internal"
	"chartdesk/internal/charting"
	"chartdesk/internal/config"
	"chartdesk/internal/i18n"
	"chartdesk/internal/session"
	"chartdesk/ui/services"

	"github.com/gin-gonic/gin"
)

// Server is the chartdesk web UI
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *internal.Logger
	store    *session.Store
	catalog  *i18n.Catalog
	views    *services.ViewService
	renderer *services.RenderService
	assets   http.Handler
	excel    excel.ExcelConfig
}

// NewServer wires the routes. gin's mode is process-wide and is set by the caller.
func NewServer(cfg *config.Config, store *session.Store, logger *internal.Logger) (*Server, error) {
	renderer, err := services.NewRenderService(embeddedFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	assets, err := newAssetRouter()
	if err != nil {
		return nil, fmt.Errorf("failed to create asset router: %w", err)
	}

	catalog := i18n.Default()
	views := services.NewViewService(services.ViewConfig{
		PreviewRows: cfg.View.PreviewRows,
		Planner: charting.PlannerConfig{
			CategoryLimit:    cfg.Charts.CategoryLimit,
			PieLimit:         cfg.Charts.PieLimit,
			GuardFallbackPie: cfg.Charts.GuardFallbackPie,
		},
	}, catalog, logger)

	s := &Server{
		router:   gin.New(),
		config:   cfg,
		logger:   logger,
		store:    store,
		catalog:  catalog,
		views:    views,
		renderer: renderer,
		assets:   assets,
		excel:    excel.DefaultExcelConfig(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	assets := gin.WrapH(s.assets)
	s.router.GET("/static/*filepath", assets)
	s.router.HEAD("/static/*filepath", assets)
	s.router.GET("/healthz", assets)

	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.POST("/upload", s.handleUpload)
	pages.POST("/reset", s.handleReset)
	pages.GET("/api/view", s.handleAPIView)

	s.router.NoRoute(s.handleNotFound)
}
