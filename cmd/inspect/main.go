package main

import (
	"fmt"
	"os"
	"strings"

	"chartdesk/adapters/excel"
	"chartdesk/internal/charting"
	"chartdesk/internal/config"
	filtering "chartdesk/internal/dataset"
	"chartdesk/internal/errors"
	"chartdesk/internal/i18n"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type inspectOptions struct {
	filters []string
	chart   string
	lang    string
	format  string
}

func newRootCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize a CSV or spreadsheet and plan its charts",
		Long: `Load a CSV or XLSX file, apply equality filters, and print row and column
counts, the describe table, missing and unique counts, the suggested charts
and, when --chart is given, the validated custom chart.

Example: inspect sales.csv --filter region=north,south --chart Pie:region:revenue --lang fa`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clauses, err := parseFilters(opts.filters)
			if err != nil {
				return err
			}
			var req *charting.ChartRequest
			if opts.chart != "" {
				r, err := parseChart(opts.chart)
				if err != nil {
					return err
				}
				req = &r
			}
			appConfig, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}

			lang := i18n.Default().Match(opts.lang, "", appConfig.View.DefaultLang)
			if opts.lang != "" && lang != strings.ToLower(opts.lang) {
				return fmt.Errorf("unsupported --lang: %s (use en|fa)", opts.lang)
			}

			texts := i18n.Default().Texts(lang)
			table, err := excel.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("%s", texts.ParseErrorFor(err))
			}

			rep, err := buildReport(table, clauses, req, texts, plannerConfig(appConfig))
			if err != nil {
				return err
			}

			switch opts.format {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), rep)
			case "text", "":
				return writeText(cmd.OutOrStdout(), rep, texts)
			default:
				return fmt.Errorf("unsupported --format: %s (use text|yaml)", opts.format)
			}
		},
	}

	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "equality filter col=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "custom chart Kind:x:y, e.g. Bar:region:revenue")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "output language (en|fa)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|yaml)")
	return cmd
}

// plannerConfig applies the CHART_* limits to the planner and validator
func plannerConfig(appConfig *config.Config) charting.PlannerConfig {
	return charting.PlannerConfig{
		CategoryLimit:    appConfig.Charts.CategoryLimit,
		PieLimit:         appConfig.Charts.PieLimit,
		GuardFallbackPie: appConfig.Charts.GuardFallbackPie,
	}
}

func parseFilters(raw []string) ([]filtering.Clause, error) {
	clauses := make([]filtering.Clause, 0, len(raw))
	for _, f := range raw {
		col, values, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid --filter %q (use col=v1,v2)", f)
		}
		clause := filtering.Clause{Column: strings.TrimSpace(col)}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				clause.Values = append(clause.Values, v)
			}
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func parseChart(raw string) (charting.ChartRequest, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return charting.ChartRequest{}, fmt.Errorf("invalid --chart %q (use Kind:x:y)", raw)
	}
	return charting.ChartRequest{Kind: parts[0], X: parts[1], Y: parts[2]}, nil
}
