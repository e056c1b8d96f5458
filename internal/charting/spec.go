// Package charting decides which charts to draw for a table and builds the
// ECharts options that draw them.
package charting

import (
	"fmt"
	"strings"
)

// Kind is a chart type
type Kind string

const (
	KindBar     Kind = "Bar"
	KindLine    Kind = "Line"
	KindScatter Kind = "Scatter"
	KindPie     Kind = "Pie"
)

// Kinds lists the chart types in the order the chart builder offers them
var Kinds = []Kind{KindBar, KindLine, KindPie, KindScatter}

// ParseKind accepts a chart kind case-insensitively
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, true
		}
	}
	return "", false
}

// ChartSpec is a fully resolved description of one chart. For Pie, X is the
// label axis and Y the value axis.
type ChartSpec struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	X        string `json:"x" yaml:"x"`
	Y        string `json:"y" yaml:"y"`
	Title    string `json:"title" yaml:"title"`
	Fallback bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// ID is a stable identifier for the chart within one page
func (s ChartSpec) ID() string {
	prefix := "suggested"
	if s.Fallback {
		prefix = "fallback"
	}
	return fmt.Sprintf("%s_%s_%s_%s", prefix, strings.ToLower(string(s.Kind)), s.X, s.Y)
}

func suggestionTitle(kind Kind, x, y string) string {
	return fmt.Sprintf("%s: %s vs %s", kind, y, x)
}
