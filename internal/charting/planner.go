package charting

import (
	"chartdesk/internal/profiling"
)

// PlannerConfig holds the cardinality guards of the suggestion planner
type PlannerConfig struct {
	// CategoryLimit is the most distinct values a category axis may have
	CategoryLimit int `json:"category_limit"`
	// PieLimit is the most distinct values a pie chart may have
	PieLimit int `json:"pie_limit"`
	// GuardFallbackPie applies PieLimit to the fallback suggestion too. Off by
	// default: the fallback has always drawn its pie unconditionally.
	GuardFallbackPie bool `json:"guard_fallback_pie"`
}

// DefaultPlannerConfig returns the 30/15 guards
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		CategoryLimit: 30,
		PieLimit:      15,
	}
}

// Planner proposes one representative set of charts for a table
type Planner struct {
	config PlannerConfig
}

// NewPlanner creates a planner
func NewPlanner(config PlannerConfig) *Planner {
	return &Planner{config: config}
}

// Suggest picks the first non-numeric column within the category limit and
// pairs it with the first numeric column. When every category column is
// rejected it falls back to the very first pair. No suggestions are made
// unless the table has both numeric and non-numeric columns.
func (p *Planner) Suggest(profiles []profiling.ColumnProfile) []ChartSpec {
	var numeric, nonNumeric []profiling.ColumnProfile
	for _, col := range profiles {
		if col.IsNumeric() {
			numeric = append(numeric, col)
		} else {
			nonNumeric = append(nonNumeric, col)
		}
	}
	if len(numeric) == 0 || len(nonNumeric) == 0 {
		return nil
	}

	y := numeric[0]
	for _, x := range nonNumeric {
		if x.Distinct > p.config.CategoryLimit {
			continue
		}
		return p.specsFor(x, y, x.Distinct <= p.config.PieLimit, false)
	}

	x := nonNumeric[0]
	withPie := !p.config.GuardFallbackPie || x.Distinct <= p.config.PieLimit
	return p.specsFor(x, y, withPie, true)
}

// UnguardedPie reports whether spec is a fallback pie over the pie limit
func (p *Planner) UnguardedPie(spec ChartSpec, profiles []profiling.ColumnProfile) bool {
	if !spec.Fallback || spec.Kind != KindPie {
		return false
	}
	x, ok := profiling.Lookup(profiles, spec.X)
	return ok && x.Distinct > p.config.PieLimit
}

func (p *Planner) specsFor(x, y profiling.ColumnProfile, withPie, fallback bool) []ChartSpec {
	kinds := []Kind{KindBar, KindLine, KindScatter}
	if withPie {
		kinds = append(kinds, KindPie)
	}
	specs := make([]ChartSpec, 0, len(kinds))
	for _, kind := range kinds {
		specs = append(specs, ChartSpec{
			Kind:     kind,
			X:        x.Name,
			Y:        y.Name,
			Title:    suggestionTitle(kind, x.Name, y.Name),
			Fallback: fallback,
		})
	}
	return specs
}
