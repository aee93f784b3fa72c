package model

import (
	"slices"
	"strings"
)

// SearchField restricts which receipt fields free-text search looks at.
type SearchField string

// Search fields understood by the backend.
const (
	SearchFieldStore    SearchField = "store"
	SearchFieldItem     SearchField = "item"
	SearchFieldCategory SearchField = "category"
)

// AllSearchFields lists the search fields in display order.
var AllSearchFields = []SearchField{SearchFieldStore, SearchFieldItem, SearchFieldCategory}

// Filters narrows the receipts listing. Empty values mean "no constraint".
type Filters struct {
	Search       string
	Month        string
	Category     string
	ItemCategory string
	Storage      string
	Store        string
	StartDate    string
	EndDate      string
	Fields       []SearchField
}

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.Month == "" &&
		f.Category == "" &&
		f.ItemCategory == "" &&
		f.Storage == "" &&
		f.Store == "" &&
		f.StartDate == "" &&
		f.EndDate == ""
}

// HasDateRange reports whether both ends of the date range are set.
func (f Filters) HasDateRange() bool {
	return f.StartDate != "" && f.EndDate != ""
}

// HasField reports whether the search is restricted to field.
func (f Filters) HasField(field SearchField) bool {
	return slices.Contains(f.Fields, field)
}

// Equal reports whether two filter sets produce the same query.
func (f Filters) Equal(other Filters) bool {
	return f.Search == other.Search &&
		f.Month == other.Month &&
		f.Category == other.Category &&
		f.ItemCategory == other.ItemCategory &&
		f.Storage == other.Storage &&
		f.Store == other.Store &&
		f.StartDate == other.StartDate &&
		f.EndDate == other.EndDate &&
		slices.Equal(f.Fields, other.Fields)
}

// Clone returns a copy that shares no slices with f.
func (f Filters) Clone() Filters {
	f.Fields = slices.Clone(f.Fields)
	return f
}

// FieldNames returns the search fields as strings in canonical order.
func (f Filters) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range AllSearchFields {
		if f.HasField(field) {
			names = append(names, string(field))
		}
	}
	return names
}
