package listing

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func receipt(id int64, date, total string) model.Receipt {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.Receipt{ID: id, Store: "Aldi", Date: d, Total: dec(total)}
}

func pageOf(hasNext bool, total int, receipts []model.Receipt, totals ...model.MonthlyTotal) *model.Page {
	return &model.Page{
		Receipts:      receipts,
		MonthlyTotals: totals,
		Size:          PageSize,
		TotalElements: total,
		HasNext:       hasNext,
	}
}

func monthTotal(month, spent string, count int) model.MonthlyTotal {
	return model.MonthlyTotal{Month: month, TotalSpent: dec(spent), ReceiptCount: count}
}

func TestState_ResetReplacesList(t *testing.T) {
	s := NewState()
	s, req, ok := s.Begin(model.Filters{}, true)
	require.True(t, ok)
	s, _ = s.Apply(req, pageOf(true, 3, []model.Receipt{
		receipt(1, "2025-01-05", "1"), receipt(2, "2025-01-04", "2"),
	}))
	require.Len(t, s.Receipts, 2)

	s, req, ok = s.Begin(model.Filters{Month: "2025-02"}, true)
	require.True(t, ok)
	assert.Equal(t, 0, req.Page)
	assert.True(t, s.Loading)
	assert.Len(t, s.Receipts, 2, "previous data stays visible while reloading")

	s, applied := s.Apply(req, pageOf(false, 1, []model.Receipt{receipt(3, "2025-02-01", "3")}))

	require.True(t, applied)
	assert.Len(t, s.Receipts, 1)
	assert.Equal(t, int64(3), s.Receipts[0].ID)
	assert.Equal(t, "2025-02", s.Filters.Month)
	assert.False(t, s.Loading)
	assert.Equal(t, 0, s.Page)
}

func TestState_LoadMoreAppendsNextPage(t *testing.T) {
	s := NewState()
	s, req, _ := s.Begin(model.Filters{}, true)
	s, _ = s.Apply(req, pageOf(true, 3, []model.Receipt{receipt(1, "2025-01-05", "1")}))

	s, req, ok := s.Begin(model.Filters{}, false)
	require.True(t, ok)
	assert.Equal(t, 1, req.Page)
	assert.False(t, req.Reset)
	assert.True(t, s.LoadingMore)

	s, _ = s.Apply(req, pageOf(false, 3, []model.Receipt{receipt(2, "2025-01-04", "2"), receipt(3, "2025-01-03", "3")}))

	assert.Len(t, s.Receipts, 3)
	assert.Equal(t, 1, s.Page)
	assert.False(t, s.HasMore)
	assert.Equal(t, 3, s.TotalElements)
}

func TestState_LoadMoreSkipped(t *testing.T) {
	t.Run("no more pages", func(t *testing.T) {
		s := NewState()
		s, req, _ := s.Begin(model.Filters{}, true)
		s, _ = s.Apply(req, pageOf(false, 1, []model.Receipt{receipt(1, "2025-01-05", "1")}))

		for range 5 {
			var ok bool
			s, _, ok = s.Begin(model.Filters{}, false)
			assert.False(t, ok)
		}
		assert.False(t, s.Busy())
	})

	t.Run("fetch outstanding", func(t *testing.T) {
		s := NewState()
		s, req, _ := s.Begin(model.Filters{}, true)
		s, _ = s.Apply(req, pageOf(true, 40, nil))

		s, _, ok := s.Begin(model.Filters{}, false)
		require.True(t, ok)
		_, _, ok = s.Begin(model.Filters{}, false)
		assert.False(t, ok)
	})

	t.Run("before first page", func(t *testing.T) {
		_, _, ok := NewState().Begin(model.Filters{}, false)
		assert.False(t, ok)
	})
}

func TestState_StaleGenerationDropped(t *testing.T) {
	s := NewState()
	s, first, _ := s.Begin(model.Filters{Search: "mi"}, true)
	s, second, _ := s.Begin(model.Filters{Search: "milk"}, true)

	s, applied := s.Apply(second, pageOf(false, 1, []model.Receipt{receipt(2, "2025-01-05", "2")}))
	require.True(t, applied)

	s, applied = s.Apply(first, pageOf(false, 9, []model.Receipt{receipt(1, "2025-01-05", "1")}))
	assert.False(t, applied)
	assert.Equal(t, int64(2), s.Receipts[0].ID)
	assert.Equal(t, 1, s.TotalElements)

	s, applied = s.Fail(first, errors.New("late failure"))
	assert.False(t, applied)
	assert.NoError(t, s.Err)
}

func TestState_MonthlyTotalsMergeReplaces(t *testing.T) {
	s := NewState()
	s, req, _ := s.Begin(model.Filters{}, true)
	s, _ = s.Apply(req, pageOf(true, 40, nil, monthTotal("2025-01", "100", 4)))

	s, req, _ = s.Begin(model.Filters{}, false)
	s, _ = s.Apply(req, pageOf(false, 40, nil,
		monthTotal("2025-01", "150", 6),
		monthTotal("2024-12", "20", 1),
	))

	require.Len(t, s.MonthlyTotals, 2)
	assert.True(t, dec("150").Equal(s.MonthlyTotals["2025-01"].TotalSpent))
	assert.Equal(t, 6, s.MonthlyTotals["2025-01"].ReceiptCount)
	assert.Equal(t, 1, s.MonthlyTotals["2024-12"].ReceiptCount)
}

func TestState_FailKeepsList(t *testing.T) {
	s := NewState()
	s, req, _ := s.Begin(model.Filters{}, true)
	s, _ = s.Apply(req, pageOf(true, 40, []model.Receipt{receipt(1, "2025-01-05", "1")}))

	s, req, _ = s.Begin(model.Filters{}, false)
	s, applied := s.Fail(req, errors.New("boom"))

	require.True(t, applied)
	assert.Error(t, s.Err)
	assert.False(t, s.Loading)
	assert.False(t, s.LoadingMore)
	assert.Len(t, s.Receipts, 1)
	assert.True(t, s.HasMore)

	s, req, _ = s.Begin(model.Filters{Month: "2025-03"}, true)
	s, _ = s.Fail(req, errors.New("boom"))
	assert.Len(t, s.Receipts, 1)
	assert.False(t, s.HasMore, "stale pages must not be extended under new filters")

	s, req, _ = s.Begin(model.Filters{}, true)
	assert.NoError(t, s.Err)
	s, _ = s.Apply(req, pageOf(false, 0, nil))
	assert.Empty(t, s.Receipts)
}

func TestState_ApplyDoesNotAliasPreviousState(t *testing.T) {
	s := NewState()
	s, req, _ := s.Begin(model.Filters{}, true)
	before, _ := s.Apply(req, pageOf(true, 40, nil, monthTotal("2025-01", "100", 4)))

	after, req, _ := before.Begin(model.Filters{}, false)
	after, _ = after.Apply(req, pageOf(false, 40, nil, monthTotal("2025-01", "1", 1)))

	assert.True(t, dec("100").Equal(before.MonthlyTotals["2025-01"].TotalSpent))
	assert.True(t, dec("1").Equal(after.MonthlyTotals["2025-01"].TotalSpent))
}

func TestState_Remove(t *testing.T) {
	loaded := func() State {
		s := NewState()
		s, req, _ := s.Begin(model.Filters{}, true)
		s, _ = s.Apply(req, pageOf(false, 5, []model.Receipt{
			receipt(1, "2025-01-20", "12.50"),
			receipt(2, "2025-01-05", "30"),
			receipt(3, "2024-12-31", "7.25"),
		},
			monthTotal("2025-01", "100", 4),
			monthTotal("2024-12", "7.25", 1),
		))
		return s
	}

	t.Run("decrements month aggregate", func(t *testing.T) {
		s, ok := loaded().Remove(1)

		require.True(t, ok)
		assert.Len(t, s.Receipts, 2)
		mt := s.MonthlyTotals["2025-01"]
		assert.True(t, dec("87.50").Equal(mt.TotalSpent))
		assert.Equal(t, 3, mt.ReceiptCount)
		assert.Equal(t, 4, s.TotalElements)
	})

	t.Run("last receipt removes month", func(t *testing.T) {
		s, ok := loaded().Remove(3)

		require.True(t, ok)
		assert.NotContains(t, s.MonthlyTotals, "2024-12")
		assert.Contains(t, s.MonthlyTotals, "2025-01")
	})

	t.Run("unknown id changes nothing", func(t *testing.T) {
		before := loaded()
		after, ok := before.Remove(99)

		assert.False(t, ok)
		assert.Equal(t, before.TotalElements, after.TotalElements)
		assert.Len(t, after.Receipts, 3)
	})

	t.Run("total elements floors at zero", func(t *testing.T) {
		s := loaded()
		s.TotalElements = 0
		s, _ = s.Remove(2)
		assert.Equal(t, 0, s.TotalElements)
	})
}

func TestState_Replace(t *testing.T) {
	s := NewState()
	s, req, _ := s.Begin(model.Filters{}, true)
	s, _ = s.Apply(req, pageOf(false, 2, []model.Receipt{
		receipt(1, "2025-01-20", "10"),
		receipt(2, "2024-12-05", "5"),
	},
		monthTotal("2025-01", "100", 4),
		monthTotal("2024-12", "5", 1),
	))

	t.Run("same month adjusts by difference", func(t *testing.T) {
		next, ok := s.Replace(receipt(1, "2025-01-21", "15"))

		require.True(t, ok)
		assert.True(t, dec("105").Equal(next.MonthlyTotals["2025-01"].TotalSpent))
		assert.Equal(t, 4, next.MonthlyTotals["2025-01"].ReceiptCount)
		assert.True(t, dec("15").Equal(next.Receipts[0].Total))
		assert.True(t, dec("10").Equal(s.Receipts[0].Total))
	})

	t.Run("moved month", func(t *testing.T) {
		next, ok := s.Replace(receipt(2, "2025-01-02", "5"))

		require.True(t, ok)
		assert.NotContains(t, next.MonthlyTotals, "2024-12")
		assert.True(t, dec("105").Equal(next.MonthlyTotals["2025-01"].TotalSpent))
		assert.Equal(t, 5, next.MonthlyTotals["2025-01"].ReceiptCount)
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := s.Replace(receipt(9, "2025-01-02", "5"))
		assert.False(t, ok)
	})
}

func TestState_SortedTotals(t *testing.T) {
	s := NewState()
	s.MonthlyTotals = map[string]model.MonthlyTotal{
		"2024-11": monthTotal("2024-11", "1", 1),
		"2025-01": monthTotal("2025-01", "1", 1),
		"2024-12": monthTotal("2024-12", "1", 1),
	}

	var months []string
	for _, mt := range s.SortedTotals() {
		months = append(months, mt.Month)
	}
	assert.Equal(t, []string{"2025-01", "2024-12", "2024-11"}, months)
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int
		loaded    int
		threshold int
		want      bool
	}{
		{name: "nothing loaded", cursor: 0, loaded: 0, threshold: 3, want: false},
		{name: "far from end", cursor: 2, loaded: 20, threshold: 3, want: false},
		{name: "at threshold", cursor: 16, loaded: 20, threshold: 3, want: true},
		{name: "last row", cursor: 19, loaded: 20, threshold: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearEnd(tt.cursor, tt.loaded, tt.threshold))
		})
	}
}

func TestGroupByMonth(t *testing.T) {
	receipts := []model.Receipt{
		receipt(1, "2025-01-05", "10"),
		receipt(2, "2025-01-20", "20"),
	}

	groups := GroupByMonth(receipts, map[string]model.MonthlyTotal{
		"2025-01": monthTotal("2025-01", "100", 4),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "2025-01", groups[0].Month)
	assert.Equal(t, "January 2025", groups[0].Label())
	require.Len(t, groups[0].Receipts, 2)
	assert.Equal(t, int64(1), groups[0].Receipts[0].ID)
	assert.Equal(t, int64(2), groups[0].Receipts[1].ID)
	assert.True(t, dec("100").Equal(groups[0].TotalSpent), "cache figures win over the loaded subset")
	assert.Equal(t, 4, groups[0].ReceiptCount)
	assert.True(t, groups[0].FromCache)
}

func TestGroupByMonth_FirstSeenOrderAndFallback(t *testing.T) {
	receipts := []model.Receipt{
		receipt(1, "2025-02-01", "1"),
		receipt(2, "2025-01-31", "2"),
		receipt(3, "2025-02-10", "3.5"),
		{ID: 4, Total: dec("4")},
	}

	groups := GroupByMonth(receipts, nil)

	require.Len(t, groups, 3)
	assert.Equal(t, "2025-02", groups[0].Month)
	assert.Equal(t, "2025-01", groups[1].Month)
	assert.Equal(t, "", groups[2].Month)
	assert.Equal(t, "Undated", groups[2].Label())

	assert.False(t, groups[0].FromCache)
	assert.True(t, dec("4.5").Equal(groups[0].TotalSpent))
	assert.Equal(t, 2, groups[0].ReceiptCount)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "December 2024", MonthLabel("2024-12"))
	assert.Equal(t, "garbage", MonthLabel("garbage"))
	assert.Equal(t, time.March.String()+" 2023", MonthLabel("2023-03"))
}
