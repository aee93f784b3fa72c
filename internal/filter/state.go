// Package filter holds the receipts filter state and its transitions.
package filter

import (
	"slices"
	"strings"

	"github.com/Veraticus/receipts/internal/model"
)

// State is the user's current filter selection.
// Every setter returns the next state and whether the change requires a reset-fetch.
type State struct {
	filters model.Filters
}

// New returns a state holding filters.
func New(filters model.Filters) State {
	return State{filters: filters.Clone()}
}

// Filters returns a copy of the current filters.
func (s State) Filters() model.Filters {
	return s.filters.Clone()
}

// Active reports whether any constraint is applied.
func (s State) Active() bool {
	return !Effective(s.filters).IsEmpty()
}

// Effective normalizes filters to what is actually sent to the backend:
// search text is trimmed, field restrictions are dropped without a search,
// and a half-open date range is dropped.
func Effective(f model.Filters) model.Filters {
	f = f.Clone()
	f.Search = strings.TrimSpace(f.Search)
	f.Store = strings.TrimSpace(f.Store)
	if f.Search == "" {
		f.Fields = nil
	} else {
		names := f.FieldNames()
		f.Fields = make([]model.SearchField, 0, len(names))
		for _, name := range names {
			f.Fields = append(f.Fields, model.SearchField(name))
		}
	}
	if !f.HasDateRange() {
		f.StartDate = ""
		f.EndDate = ""
	}
	return f
}

func (s State) with(next model.Filters) (State, bool) {
	fetch := !Effective(s.filters).Equal(Effective(next))
	return State{filters: next}, fetch
}

// SetSearch replaces the free-text search.
func (s State) SetSearch(text string) (State, bool) {
	next := s.filters.Clone()
	next.Search = text
	return s.with(next)
}

// SetMonth selects a YYYY-MM month, or "" for all months.
func (s State) SetMonth(month string) (State, bool) {
	next := s.filters.Clone()
	next.Month = month
	return s.with(next)
}

// SetCategory selects a receipt category.
func (s State) SetCategory(category string) (State, bool) {
	next := s.filters.Clone()
	next.Category = category
	return s.with(next)
}

// SetItemCategory selects an item category.
func (s State) SetItemCategory(category string) (State, bool) {
	next := s.filters.Clone()
	next.ItemCategory = category
	return s.with(next)
}

// SetStorage selects an item storage type.
func (s State) SetStorage(storage string) (State, bool) {
	next := s.filters.Clone()
	next.Storage = storage
	return s.with(next)
}

// SetStore restricts results to a store name.
func (s State) SetStore(store string) (State, bool) {
	next := s.filters.Clone()
	next.Store = store
	return s.with(next)
}

// SetDateRange sets both ends of the date range. The range only applies once both are set.
func (s State) SetDateRange(start, end string) (State, bool) {
	next := s.filters.Clone()
	next.StartDate = strings.TrimSpace(start)
	next.EndDate = strings.TrimSpace(end)
	return s.with(next)
}

// ToggleField adds or removes a search field restriction.
// Without search text the toggle is recorded but does not fetch.
func (s State) ToggleField(field model.SearchField) (State, bool) {
	next := s.filters.Clone()
	if i := slices.Index(next.Fields, field); i >= 0 {
		next.Fields = slices.Delete(next.Fields, i, i+1)
	} else {
		next.Fields = append(next.Fields, field)
	}
	return s.with(next)
}

// Clear resets every filter. Clearing always reloads the listing.
func (s State) Clear() (State, bool) {
	return State{}, true
}

// Cycle steps through options treating "" (no constraint) as the first entry.
// It returns the option delta steps away from current, wrapping at both ends.
func Cycle(options []string, current string, delta int) string {
	ring := make([]string, 0, len(options)+1)
	ring = append(ring, "")
	ring = append(ring, options...)

	i := slices.Index(ring, current)
	if i < 0 {
		i = 0
	}
	n := len(ring)
	return ring[((i+delta)%n+n)%n]
}

// MonthKeys returns the month values of opts in order.
func MonthKeys(opts []model.MonthOption) []string {
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = o.Month
	}
	return keys
}

// MonthLabel returns the display label for month, falling back to the key itself.
func MonthLabel(opts []model.MonthOption, month string) string {
	for _, o := range opts {
		if o.Month == month && o.Label != "" {
			return o.Label
		}
	}
	return month
}
