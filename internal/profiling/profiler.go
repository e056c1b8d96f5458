package profiling

import (
	"chartdesk/domain/dataset"
)

// ColumnProfile is the read-only summary the chart planner and validator work from
type ColumnProfile struct {
	Name     string       `json:"name"`
	Kind     dataset.Kind `json:"kind"`
	Distinct int          `json:"distinct"`
	Nulls    int          `json:"nulls"`
}

// IsNumeric reports whether the profiled column is numeric
func (p ColumnProfile) IsNumeric() bool {
	return p.Kind == dataset.KindNumeric
}

// ProfileColumn computes the profile of a single column
func ProfileColumn(col *dataset.Column) ColumnProfile {
	return ColumnProfile{
		Name:     col.Name,
		Kind:     col.Kind,
		Distinct: len(col.DistinctKeys()),
		Nulls:    col.MissingCount(),
	}
}

// Profile computes column profiles in table order. Profiles are recomputed on
// every call and never cached.
func Profile(t *dataset.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, t.ColumnCount())
	for _, col := range t.Columns() {
		profiles = append(profiles, ProfileColumn(col))
	}
	return profiles
}

// Lookup finds a profile by column name
func Lookup(profiles []ColumnProfile, name string) (ColumnProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return ColumnProfile{}, false
}

// NumericNames returns the names of the numeric columns in order
func NumericNames(profiles []ColumnProfile) []string {
	var names []string
	for _, p := range profiles {
		if p.IsNumeric() {
			names = append(names, p.Name)
		}
	}
	return names
}
