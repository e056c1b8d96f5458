package charting

import (
	"fmt"
	"strings"

	"chartdesk/internal/profiling"
)

// Reason explains why a chart request was rejected
type Reason string

const (
	ReasonTooManyCategories Reason = "TooManyCategories"
	ReasonUnknownColumn     Reason = "UnknownColumn"
	ReasonUnknownKind       Reason = "UnknownKind"
)

// Rejection is the expected, recoverable outcome of an unrenderable request.
// It is shown as a warning; the rest of the page keeps working.
type Rejection struct {
	Reason   Reason `json:"reason"`
	Kind     string `json:"kind"`
	Column   string `json:"column,omitempty"`
	Distinct int    `json:"distinct,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonTooManyCategories:
		return fmt.Sprintf("%s chart needs at most %d distinct values in %q, found %d", r.Kind, r.Limit, r.Column, r.Distinct)
	case ReasonUnknownColumn:
		return fmt.Sprintf("unknown column %q", r.Column)
	default:
		return fmt.Sprintf("unknown chart kind %q", r.Kind)
	}
}

// ChartRequest is what the user picked in the chart builder. Y is expected to
// be a numeric column; the selector only offers those.
type ChartRequest struct {
	Kind string `json:"kind" form:"kind"`
	X    string `json:"x" form:"x"`
	Y    string `json:"y" form:"y"`
}

// DefaultTitleTemplate is used when no localized template is given
const DefaultTitleTemplate = "{y} by {x}"

// Validator decides whether a user-built chart can be drawn
type Validator struct {
	pieLimit      int
	titleTemplate string
}

// NewValidator creates a validator. titleTemplate may use {x} and {y}.
func NewValidator(pieLimit int, titleTemplate string) *Validator {
	if titleTemplate == "" {
		titleTemplate = DefaultTitleTemplate
	}
	return &Validator{pieLimit: pieLimit, titleTemplate: titleTemplate}
}

// Validate accepts Bar, Line and Scatter for any x column, and Pie only when
// x has at most pieLimit distinct values. Each call is independent.
func (v *Validator) Validate(req ChartRequest, profiles []profiling.ColumnProfile) (ChartSpec, error) {
	kind, ok := ParseKind(req.Kind)
	if !ok {
		return ChartSpec{}, &Rejection{Reason: ReasonUnknownKind, Kind: req.Kind}
	}
	x, ok := profiling.Lookup(profiles, req.X)
	if !ok {
		return ChartSpec{}, &Rejection{Reason: ReasonUnknownColumn, Kind: string(kind), Column: req.X}
	}

	if kind == KindPie && x.Distinct > v.pieLimit {
		return ChartSpec{}, &Rejection{
			Reason:   ReasonTooManyCategories,
			Kind:     string(kind),
			Column:   x.Name,
			Distinct: x.Distinct,
			Limit:    v.pieLimit,
		}
	}

	return ChartSpec{
		Kind:  kind,
		X:     req.X,
		Y:     req.Y,
		Title: v.title(kind, req.X, req.Y),
	}, nil
}

func (v *Validator) title(kind Kind, x, y string) string {
	body := strings.NewReplacer("{x}", x, "{y}", y).Replace(v.titleTemplate)
	return fmt.Sprintf("%s: %s", kind, body)
}
