package profiling

import (
	"encoding/json"
	"testing"

	"chartdesk/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericColumn(name string, values ...float64) *dataset.Column {
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		cells[i] = dataset.NewNumericCell("", v)
	}
	return &dataset.Column{Name: name, Kind: dataset.KindNumeric, Cells: cells}
}

func textColumn(name string, values ...string) *dataset.Column {
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = dataset.NewMissingCell(v)
			continue
		}
		cells[i] = dataset.NewTextCell(v)
	}
	return &dataset.Column{Name: name, Kind: dataset.KindNonNumeric, Cells: cells}
}

func TestDescribeNumeric(t *testing.T) {
	s := DescribeNumeric("x", []float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, float64(s.Mean), 1e-9)
	assert.InDelta(t, 1.2909944, float64(s.Std), 1e-6)
	assert.Equal(t, Stat(1), s.Min)
	assert.InDelta(t, 1.75, float64(s.Q25), 1e-9)
	assert.InDelta(t, 2.5, float64(s.Median), 1e-9)
	assert.InDelta(t, 3.25, float64(s.Q75), 1e-9)
	assert.Equal(t, Stat(4), s.Max)
}

func TestDescribeNumericEmptyAndSingle(t *testing.T) {
	empty := DescribeNumeric("x", nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Mean.IsNaN())
	assert.True(t, empty.Max.IsNaN())

	single := DescribeNumeric("x", []float64{7})
	assert.Equal(t, Stat(7), single.Mean)
	assert.True(t, single.Std.IsNaN(), "sample std of one value is undefined")
	assert.Equal(t, Stat(7), single.Q75)
}

func TestDescribeFallsBackToText(t *testing.T) {
	table, err := dataset.NewTable("t", []*dataset.Column{
		textColumn("city", "Oslo", "Rome", "Oslo", ""),
	})
	require.NoError(t, err)

	summary := Describe(table)
	assert.Empty(t, summary.Numeric)
	require.Len(t, summary.Text, 1)
	assert.Equal(t, TextSummary{Column: "city", Count: 3, Unique: 2, Top: "Oslo", Freq: 2}, summary.Text[0])
}

func TestDescribeSkipsTextWhenNumericPresent(t *testing.T) {
	table, err := dataset.NewTable("t", []*dataset.Column{
		textColumn("city", "Oslo", "Rome"),
		numericColumn("sales", 1, 2),
	})
	require.NoError(t, err)

	summary := Describe(table)
	assert.Len(t, summary.Numeric, 1)
	assert.Empty(t, summary.Text)
}

func TestStatJSON(t *testing.T) {
	out, err := json.Marshal(DescribeNumeric("x", nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"mean":null`)

	assert.Equal(t, "NaN", NaN().String())
	assert.Equal(t, "0.333333", Stat(1.0/3).String())
	assert.Equal(t, "12", Stat(12).String())
}

func TestProfileAndCounts(t *testing.T) {
	table, err := dataset.NewTable("t", []*dataset.Column{
		textColumn("region", "N", "S", "N", ""),
		numericColumn("sales", 1, 2, 2, 5),
	})
	require.NoError(t, err)

	profiles := Profile(table)
	require.Len(t, profiles, 2)
	assert.Equal(t, ColumnProfile{Name: "region", Kind: dataset.KindNonNumeric, Distinct: 2, Nulls: 1}, profiles[0])
	assert.Equal(t, ColumnProfile{Name: "sales", Kind: dataset.KindNumeric, Distinct: 3, Nulls: 0}, profiles[1])

	assert.Equal(t, []string{"sales"}, NumericNames(profiles))
	p, ok := Lookup(profiles, "region")
	assert.True(t, ok)
	assert.Equal(t, 2, p.Distinct)

	assert.Equal(t, []NamedCount{{"region", 1}, {"sales", 0}}, MissingCounts(table))
	assert.Equal(t, []NamedCount{{"region", 2}, {"sales", 3}}, DistinctCounts(table))
}
