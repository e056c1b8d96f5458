package excel

import (
	"math"
	"strconv"
	"strings"

	"chartdesk/domain/dataset"
)

// TypeCoercer decides column kinds and converts raw text to cells
type TypeCoercer struct {
	na map[string]bool
}

// NewTypeCoercer creates a coercer with the given missing-value tokens
func NewTypeCoercer(naTokens []string) *TypeCoercer {
	na := make(map[string]bool, len(naTokens))
	for _, tok := range naTokens {
		na[tok] = true
	}
	return &TypeCoercer{na: na}
}

// IsMissing reports whether raw text stands for a missing value
func (c *TypeCoercer) IsMissing(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || c.na[s]
}

// tryParseNumeric parses plain decimal or scientific notation. Thousands
// separators, currency marks and percent signs are left to the text kind.
func (c *TypeCoercer) tryParseNumeric(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// InferKind classifies a column: numeric when every non-missing value parses
// as a number. A column with nothing but missing values is numeric.
func (c *TypeCoercer) InferKind(values []string) dataset.Kind {
	for _, raw := range values {
		if c.IsMissing(raw) {
			continue
		}
		if _, ok := c.tryParseNumeric(raw); !ok {
			return dataset.KindNonNumeric
		}
	}
	return dataset.KindNumeric
}

// BuildColumn infers the kind of the raw values and converts them to cells
func (c *TypeCoercer) BuildColumn(name string, values []string) *dataset.Column {
	kind := c.InferKind(values)
	cells := make([]dataset.Cell, len(values))
	for i, raw := range values {
		switch {
		case c.IsMissing(raw):
			cells[i] = dataset.NewMissingCell(raw)
		case kind == dataset.KindNumeric:
			v, _ := c.tryParseNumeric(raw)
			cells[i] = dataset.NewNumericCell(strings.TrimSpace(raw), v)
		default:
			cells[i] = dataset.NewTextCell(strings.TrimSpace(raw))
		}
	}
	return &dataset.Column{Name: name, Kind: kind, Cells: cells}
}
