package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		got    string
		expect string
	}{
		{name: "success", got: FormatSuccess("Receipt deleted"), expect: "Receipt deleted"},
		{name: "error", got: FormatError("Failed"), expect: ErrorIcon},
		{name: "title", got: FormatTitle("Receipts"), expect: "Receipts"},
		{name: "money", got: FormatMoney(decimal.RequireFromString("1234.5")), expect: "$1,234.50"},
		{name: "box", got: RenderBox("Receipt #4", "Corner Market"), expect: "Corner Market"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.expect)
		})
	}
}
