package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"chartdesk/domain/dataset"
	"chartdesk/internal/charting"
	filtering "chartdesk/internal/dataset"
	"chartdesk/internal/i18n"
	"chartdesk/internal/profiling"

	"gopkg.in/yaml.v3"
)

type columnKind struct {
	Name string       `yaml:"name"`
	Kind dataset.Kind `yaml:"kind"`
}

type report struct {
	File        string                 `yaml:"file"`
	Rows        int                    `yaml:"rows"`
	ViewRows    int                    `yaml:"view_rows"`
	Columns     int                    `yaml:"columns"`
	Kinds       []columnKind           `yaml:"kinds"`
	Filters     []filtering.Clause     `yaml:"filters,omitempty"`
	Summary     profiling.Summary      `yaml:"summary"`
	Missing     []profiling.NamedCount `yaml:"missing"`
	Unique      []profiling.NamedCount `yaml:"unique"`
	Suggestions []charting.ChartSpec   `yaml:"suggestions"`
	Chart       *charting.ChartSpec    `yaml:"chart,omitempty"`
	Warning     string                 `yaml:"warning,omitempty"`
}

// buildReport mirrors the web render pass: cardinality from the base table,
// statistics from the filtered view
func buildReport(table *dataset.Table, clauses []filtering.Clause, req *charting.ChartRequest, texts *i18n.Texts, plannerConfig charting.PlannerConfig) (*report, error) {
	view, err := filtering.ApplyFilters(table, clauses)
	if err != nil {
		return nil, err
	}

	rep := &report{
		File:     table.Name,
		Rows:     table.RowCount(),
		ViewRows: view.RowCount(),
		Columns:  table.ColumnCount(),
		Filters:  clauses,
		Summary:  profiling.Describe(view),
		Missing:  profiling.MissingCounts(view),
		Unique:   profiling.DistinctCounts(view),
	}
	for _, col := range table.Columns() {
		rep.Kinds = append(rep.Kinds, columnKind{Name: col.Name, Kind: col.Kind})
	}

	profiles := profiling.Profile(table)
	rep.Suggestions = charting.NewPlanner(plannerConfig).Suggest(profiles)

	if req != nil {
		if y, ok := profiling.Lookup(profiles, req.Y); !ok || !y.IsNumeric() {
			return nil, fmt.Errorf("y column %q must be a numeric column", req.Y)
		}
		spec, err := charting.NewValidator(plannerConfig.PieLimit, texts.ByTemplate).Validate(*req, profiles)
		var rejection *charting.Rejection
		switch {
		case err == nil:
			rep.Chart = &spec
		case errors.As(err, &rejection) && rejection.Reason == charting.ReasonTooManyCategories:
			rep.Warning = texts.PieWarningFor(rejection.Limit)
		case errors.As(err, &rejection):
			rep.Warning = rejection.Error()
		default:
			return nil, err
		}
	}
	return rep, nil
}

func writeYAML(w io.Writer, rep *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, rep *report, texts *i18n.Texts) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\n", texts.Rows, texts.Int(rep.ViewRows))
	fmt.Fprintf(tw, "%s\t%s\n", texts.Columns, texts.Int(rep.Columns))
	for _, f := range rep.Filters {
		fmt.Fprintf(tw, "  %s\n", f)
	}

	fmt.Fprintf(tw, "\n%s\n", texts.Describe)
	if len(rep.Summary.Numeric) > 0 {
		fmt.Fprintln(tw, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
		for _, s := range rep.Summary.Numeric {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}
	} else {
		fmt.Fprintln(tw, "\tcount\tunique\ttop\tfreq")
		for _, s := range rep.Summary.Text {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\n", s.Column, s.Count, s.Unique, s.Top, s.Freq)
		}
	}

	fmt.Fprintf(tw, "\n%s\n", texts.Missing)
	for _, c := range rep.Missing {
		fmt.Fprintf(tw, "%s\t%s\n", c.Column, texts.Int(c.Count))
	}
	fmt.Fprintf(tw, "\n%s\n", texts.Unique)
	for _, c := range rep.Unique {
		fmt.Fprintf(tw, "%s\t%s\n", c.Column, texts.Int(c.Count))
	}

	if len(rep.Suggestions) > 0 {
		fmt.Fprintf(tw, "\n%s\n", texts.Suggested)
		for _, s := range rep.Suggestions {
			line := s.Title
			if s.Fallback {
				line += " (fallback)"
			}
			fmt.Fprintf(tw, "  %s\n", line)
		}
	}

	if rep.Chart != nil || rep.Warning != "" {
		fmt.Fprintf(tw, "\n%s\n", texts.Custom)
		if rep.Chart != nil {
			fmt.Fprintf(tw, "  %s\n", rep.Chart.Title)
		}
		if rep.Warning != "" {
			fmt.Fprintf(tw, "  %s\n", strings.TrimSpace(rep.Warning))
		}
	}
	return tw.Flush()
}
