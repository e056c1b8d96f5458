package dataset

import (
	"fmt"
	"strings"

	"chartdesk/domain/dataset"
	"chartdesk/internal/errors"
)

// Clause restricts a column to a set of allowed cell keys. A clause with no
// values imposes no restriction.
type Clause struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Active reports whether the clause restricts anything
func (c Clause) Active() bool {
	return len(c.Values) > 0
}

// String renders the clause for logs
func (c Clause) String() string {
	if !c.Active() {
		return c.Column + " ∈ *"
	}
	return fmt.Sprintf("%s ∈ {%s}", c.Column, strings.Join(c.Values, ", "))
}

type compiledClause struct {
	column  *dataset.Column
	allowed map[string]bool
}

// ApplyFilters returns a view of the rows matching every active clause.
// Clauses are AND-combined; values within a clause are OR-combined. Missing
// cells never match. The input table is left untouched, and with no active
// clause the input table itself is returned.
func ApplyFilters(t *dataset.Table, clauses []Clause) (*dataset.Table, error) {
	compiled := make([]compiledClause, 0, len(clauses))
	for _, clause := range clauses {
		col, ok := t.Column(clause.Column)
		if !ok {
			return nil, errors.NotFound(fmt.Sprintf("filter column %q", clause.Column))
		}
		if !clause.Active() {
			continue
		}
		allowed := make(map[string]bool, len(clause.Values))
		for _, v := range clause.Values {
			allowed[v] = true
		}
		compiled = append(compiled, compiledClause{column: col, allowed: allowed})
	}

	if len(compiled) == 0 {
		return t, nil
	}

	n := t.RowCount()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matchesAll(compiled, i) {
			indices = append(indices, i)
		}
	}
	return t.Select(indices), nil
}

func matchesAll(clauses []compiledClause, row int) bool {
	for _, c := range clauses {
		cell := c.column.Cells[row]
		if cell.Missing || !c.allowed[cell.Key()] {
			return false
		}
	}
	return true
}

// FilterOptions lists the values a user can pick for a column: its distinct
// non-missing keys in first-appearance order
func FilterOptions(t *dataset.Table, column string) ([]string, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("filter column %q", column))
	}
	return col.DistinctKeys(), nil
}
