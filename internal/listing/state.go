// Package listing accumulates paged receipts and their monthly aggregates.
package listing

import (
	"maps"
	"slices"
	"strings"

	"github.com/Veraticus/receipts/internal/model"
)

// PageSize is the number of receipts requested per page.
const PageSize = 20

// Request describes one page fetch issued by Begin.
type Request struct {
	Filters    model.Filters
	Page       int
	Generation uint64
	Reset      bool
}

// State is the accumulated listing for one filter session.
// Transitions return a new State; the receiver is never mutated.
type State struct {
	Err           error
	MonthlyTotals map[string]model.MonthlyTotal
	Filters       model.Filters
	Receipts      []model.Receipt
	Page          int
	TotalElements int
	Generation    uint64
	HasMore       bool
	Loading       bool
	LoadingMore   bool
}

// NewState returns an empty listing with nothing loaded.
func NewState() State {
	return State{
		Page:          -1,
		MonthlyTotals: map[string]model.MonthlyTotal{},
	}
}

// Busy reports whether a fetch is outstanding.
func (s State) Busy() bool {
	return s.Loading || s.LoadingMore
}

// Begin starts a fetch. A reset always issues a request for page 0 under a new
// generation. A load-more is skipped while a fetch is outstanding or when the
// server reported no further pages.
func (s State) Begin(filters model.Filters, reset bool) (State, Request, bool) {
	if reset {
		s.Generation++
		s.Filters = filters.Clone()
		s.Loading = true
		s.LoadingMore = false
		s.Err = nil
		return s, Request{
			Filters:    s.Filters.Clone(),
			Page:       0,
			Generation: s.Generation,
			Reset:      true,
		}, true
	}

	if s.Busy() || !s.HasMore {
		return s, Request{}, false
	}

	s.LoadingMore = true
	return s, Request{
		Filters:    s.Filters.Clone(),
		Page:       s.Page + 1,
		Generation: s.Generation,
	}, true
}

// Apply folds a fetched page into the state. Responses from an older
// generation are dropped and reported as not applied.
func (s State) Apply(req Request, page *model.Page) (State, bool) {
	if req.Generation != s.Generation || page == nil {
		return s, false
	}

	var totals map[string]model.MonthlyTotal
	if req.Reset {
		s.Receipts = slices.Clone(page.Receipts)
		totals = make(map[string]model.MonthlyTotal, len(page.MonthlyTotals))
	} else {
		s.Receipts = append(slices.Clone(s.Receipts), page.Receipts...)
		totals = maps.Clone(s.MonthlyTotals)
		if totals == nil {
			totals = make(map[string]model.MonthlyTotal, len(page.MonthlyTotals))
		}
	}
	// Each page carries the server's running total for a month, so the latest one wins.
	for _, mt := range page.MonthlyTotals {
		totals[mt.Month] = mt
	}
	if s.Receipts == nil {
		s.Receipts = []model.Receipt{}
	}

	s.MonthlyTotals = totals
	s.Page = req.Page
	s.HasMore = page.HasNext
	s.TotalElements = page.TotalElements
	s.Loading = false
	s.LoadingMore = false
	s.Err = nil

	return s, true
}

// Fail records a failed fetch. Loaded receipts stay visible. A failed reset
// stops further paging since the loaded pages belong to the previous filters.
func (s State) Fail(req Request, err error) (State, bool) {
	if req.Generation != s.Generation {
		return s, false
	}

	s.Err = err
	s.Loading = false
	s.LoadingMore = false
	if req.Reset {
		s.HasMore = false
	}
	return s, true
}

// Find returns the loaded receipt with id.
func (s State) Find(id int64) (model.Receipt, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Receipt{}, false
	}
	return s.Receipts[i], true
}

func (s State) index(id int64) int {
	return slices.IndexFunc(s.Receipts, func(r model.Receipt) bool {
		return r.ID == id
	})
}

// Remove drops a deleted receipt and adjusts the aggregates: its month loses
// the receipt's total and one count, and disappears when the count reaches zero.
func (s State) Remove(id int64) (State, bool) {
	i := s.index(id)
	if i < 0 {
		return s, false
	}
	removed := s.Receipts[i]

	s.Receipts = slices.Delete(slices.Clone(s.Receipts), i, i+1)
	s.MonthlyTotals = maps.Clone(s.MonthlyTotals)

	month := removed.MonthKey()
	if mt, ok := s.MonthlyTotals[month]; ok {
		mt.TotalSpent = mt.TotalSpent.Sub(removed.Total)
		mt.ReceiptCount--
		if mt.ReceiptCount <= 0 {
			delete(s.MonthlyTotals, month)
		} else {
			s.MonthlyTotals[month] = mt
		}
	}

	if s.TotalElements > 0 {
		s.TotalElements--
	}

	return s, true
}

// Replace swaps in an updated receipt. When the month is unchanged the cached
// total moves by the difference; a receipt moved to another month leaves its
// old month as if deleted and is added to the new month when that is cached.
func (s State) Replace(updated model.Receipt) (State, bool) {
	i := s.index(updated.ID)
	if i < 0 {
		return s, false
	}
	previous := s.Receipts[i]

	s.Receipts = slices.Clone(s.Receipts)
	s.Receipts[i] = updated
	s.MonthlyTotals = maps.Clone(s.MonthlyTotals)

	oldMonth, newMonth := previous.MonthKey(), updated.MonthKey()
	if oldMonth == newMonth {
		if mt, ok := s.MonthlyTotals[oldMonth]; ok {
			mt.TotalSpent = mt.TotalSpent.Sub(previous.Total).Add(updated.Total)
			s.MonthlyTotals[oldMonth] = mt
		}
		return s, true
	}

	if mt, ok := s.MonthlyTotals[oldMonth]; ok {
		mt.TotalSpent = mt.TotalSpent.Sub(previous.Total)
		mt.ReceiptCount--
		if mt.ReceiptCount <= 0 {
			delete(s.MonthlyTotals, oldMonth)
		} else {
			s.MonthlyTotals[oldMonth] = mt
		}
	}
	if mt, ok := s.MonthlyTotals[newMonth]; ok {
		mt.TotalSpent = mt.TotalSpent.Add(updated.Total)
		mt.ReceiptCount++
		s.MonthlyTotals[newMonth] = mt
	}

	return s, true
}

// SortedTotals returns the cached monthly totals, newest month first.
func (s State) SortedTotals() []model.MonthlyTotal {
	totals := slices.Collect(maps.Values(s.MonthlyTotals))
	slices.SortFunc(totals, func(a, b model.MonthlyTotal) int {
		return strings.Compare(b.Month, a.Month)
	})
	return totals
}

// NearEnd reports whether the cursor is within threshold rows of the last loaded row.
func NearEnd(cursor, loaded, threshold int) bool {
	if loaded == 0 {
		return false
	}
	return loaded-1-cursor <= threshold
}
