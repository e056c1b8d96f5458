package charting

import (
	"errors"
	"testing"

	"chartdesk/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePieCardinality(t *testing.T) {
	validator := NewValidator(15, "")

	tests := []struct {
		name     string
		distinct int
		accept   bool
	}{
		{name: "well under the limit", distinct: 4, accept: true},
		{name: "at the limit", distinct: 15, accept: true},
		{name: "one over", distinct: 16, accept: false},
		{name: "twenty categories", distinct: 20, accept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := []profiling.ColumnProfile{text("category", tt.distinct), num("amount", 50)}

			spec, err := validator.Validate(ChartRequest{Kind: "Pie", X: "category", Y: "amount"}, profiles)
			if tt.accept {
				require.NoError(t, err)
				assert.Equal(t, KindPie, spec.Kind)
				assert.Equal(t, "category", spec.X)
				assert.Equal(t, "amount", spec.Y)
				return
			}

			var rejection *Rejection
			require.True(t, errors.As(err, &rejection))
			assert.Equal(t, ReasonTooManyCategories, rejection.Reason)
			assert.Equal(t, tt.distinct, rejection.Distinct)
			assert.Equal(t, 15, rejection.Limit)
			assert.Empty(t, spec.Kind)
		})
	}
}

func TestValidateOtherKindsIgnoreCardinality(t *testing.T) {
	validator := NewValidator(15, "")
	profiles := []profiling.ColumnProfile{text("id", 1000), num("revenue", 1000)}

	for _, kind := range []string{"Bar", "Line", "Scatter"} {
		spec, err := validator.Validate(ChartRequest{Kind: kind, X: "id", Y: "revenue"}, profiles)
		require.NoError(t, err, kind)
		assert.Equal(t, Kind(kind), spec.Kind)
	}
}

func TestValidateNumericXAxis(t *testing.T) {
	validator := NewValidator(15, "")
	profiles := []profiling.ColumnProfile{num("year", 5), num("revenue", 5)}

	spec, err := validator.Validate(ChartRequest{Kind: "Pie", X: "year", Y: "revenue"}, profiles)
	require.NoError(t, err)
	assert.Equal(t, "year", spec.X)
}

func TestValidateTitles(t *testing.T) {
	profiles := []profiling.ColumnProfile{text("region", 3), num("sales", 3)}

	spec, err := NewValidator(15, "").Validate(ChartRequest{Kind: "Bar", X: "region", Y: "sales"}, profiles)
	require.NoError(t, err)
	assert.Equal(t, "Bar: sales by region", spec.Title)

	spec, err = NewValidator(15, "{y} بر اساس {x}").Validate(ChartRequest{Kind: "Line", X: "region", Y: "sales"}, profiles)
	require.NoError(t, err)
	assert.Equal(t, "Line: sales بر اساس region", spec.Title)
}

func TestValidateUnknownInputs(t *testing.T) {
	validator := NewValidator(15, "")
	profiles := []profiling.ColumnProfile{text("region", 3), num("sales", 3)}

	_, err := validator.Validate(ChartRequest{Kind: "Donut", X: "region", Y: "sales"}, profiles)
	var rejection *Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, ReasonUnknownKind, rejection.Reason)

	_, err = validator.Validate(ChartRequest{Kind: "Bar", X: "country", Y: "sales"}, profiles)
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, ReasonUnknownColumn, rejection.Reason)
	assert.Contains(t, rejection.Error(), "country")
}
