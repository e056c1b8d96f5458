package profiling

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"chartdesk/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Stat is a summary value; NaN marks "not defined" (e.g. the mean of no values)
type Stat float64

// NaN returns the undefined statistic
func NaN() Stat {
	return Stat(math.NaN())
}

// IsNaN reports whether the statistic is undefined
func (s Stat) IsNaN() bool {
	return math.IsNaN(float64(s))
}

// String formats the value rounded to six decimals
func (s Stat) String() string {
	v := float64(s)
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// MarshalJSON encodes undefined and infinite values as null
func (s Stat) MarshalJSON() ([]byte, error) {
	v := float64(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// NumericSummary holds the describe row set for one numeric column
type NumericSummary struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
	Mean   Stat   `json:"mean" yaml:"mean"`
	Std    Stat   `json:"std" yaml:"std"`
	Min    Stat   `json:"min" yaml:"min"`
	Q25    Stat   `json:"q25" yaml:"q25"`
	Median Stat   `json:"median" yaml:"median"`
	Q75    Stat   `json:"q75" yaml:"q75"`
	Max    Stat   `json:"max" yaml:"max"`
}

// TextSummary holds count/unique/top/freq for a non-numeric column
type TextSummary struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
	Unique int    `json:"unique" yaml:"unique"`
	Top    string `json:"top" yaml:"top"`
	Freq   int    `json:"freq" yaml:"freq"`
}

// Summary is the describe output of a table. Text is only filled when the
// table has no numeric columns.
type Summary struct {
	Numeric []NumericSummary `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Text    []TextSummary    `json:"text,omitempty" yaml:"text,omitempty"`
}

// Describe summarizes numeric columns, falling back to the non-numeric ones
// when there are none
func Describe(t *dataset.Table) Summary {
	var summary Summary
	for _, col := range t.NumericColumns() {
		summary.Numeric = append(summary.Numeric, DescribeNumeric(col.Name, col.Numbers()))
	}
	if len(summary.Numeric) > 0 {
		return summary
	}
	for _, col := range t.NonNumericColumns() {
		summary.Text = append(summary.Text, DescribeText(col))
	}
	return summary
}

// DescribeNumeric computes count, mean, sample standard deviation, min,
// quartiles and max. Empty input yields NaN statistics.
func DescribeNumeric(name string, data []float64) NumericSummary {
	s := NumericSummary{
		Column: name,
		Count:  len(data),
		Mean:   NaN(),
		Std:    NaN(),
		Min:    NaN(),
		Q25:    NaN(),
		Median: NaN(),
		Q75:    NaN(),
		Max:    NaN(),
	}
	if len(data) == 0 {
		return s
	}

	if mean, err := stats.Mean(data); err == nil {
		s.Mean = Stat(mean)
	}
	if min, err := stats.Min(data); err == nil {
		s.Min = Stat(min)
	}
	if max, err := stats.Max(data); err == nil {
		s.Max = Stat(max)
	}
	if median, err := stats.Median(data); err == nil {
		s.Median = Stat(median)
	}
	if len(data) > 1 {
		s.Std = Stat(stat.StdDev(data, nil))
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = Stat(quantileLinear(sorted, 0.25))
	s.Q75 = Stat(quantileLinear(sorted, 0.75))
	return s
}

// quantileLinear interpolates between closest ranks (h = (n-1)p), the
// definition dataframe describe output uses. sorted must be ascending and
// non-empty.
func quantileLinear(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// DescribeText computes count, unique, most frequent value and its frequency.
// Ties go to the value seen first.
func DescribeText(col *dataset.Column) TextSummary {
	s := TextSummary{Column: col.Name}
	counts := make(map[string]int)
	for _, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		s.Count++
		counts[cell.Key()]++
	}
	for _, key := range col.DistinctKeys() {
		s.Unique++
		if counts[key] > s.Freq {
			s.Top = key
			s.Freq = counts[key]
		}
	}
	return s
}

// MissingCounts returns the missing cell count per column, in table order
func MissingCounts(t *dataset.Table) []NamedCount {
	out := make([]NamedCount, 0, t.ColumnCount())
	for _, col := range t.Columns() {
		out = append(out, NamedCount{Column: col.Name, Count: col.MissingCount()})
	}
	return out
}

// DistinctCounts returns the distinct non-missing value count per column
func DistinctCounts(t *dataset.Table) []NamedCount {
	out := make([]NamedCount, 0, t.ColumnCount())
	for _, col := range t.Columns() {
		out = append(out, NamedCount{Column: col.Name, Count: len(col.DistinctKeys())})
	}
	return out
}

// NamedCount pairs a column name with a count
type NamedCount struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}
