package components

import (
	"strings"

	"github.com/Veraticus/receipts/internal/model"
)

// FormatDate renders a receipt date as "Jan 5, 2025".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "No date"
	}
	return d.Format("Jan 2, 2006")
}

// categoryLabel renders an optional category enum, or fallback when unset.
func categoryLabel(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return model.FormatCategoryLabel(value)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
