package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTrade() *Trade {
	return &Trade{
		Ticker:   "TSLA",
		Price:    decimal.NewFromFloat(242.50),
		Quantity: decimal.NewFromInt(10),
	}
}

func TestTradeValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Trade)
		ok     bool
	}{
		{"valid", func(tr *Trade) {}, true},
		{"empty ticker", func(tr *Trade) { tr.Ticker = "  " }, false},
		{"zero price", func(tr *Trade) { tr.Price = decimal.Zero }, false},
		{"negative price", func(tr *Trade) { tr.Price = decimal.NewFromInt(-1) }, false},
		{"zero quantity", func(tr *Trade) { tr.Quantity = decimal.Zero }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTrade()
			tc.mutate(tr)
			err := tr.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, common.ErrValidation), "want ErrValidation, got %v", err)
			}
		})
	}
}

func TestIsDailySummary(t *testing.T) {
	tr := validTrade()
	assert.False(t, tr.IsDailySummary())
	tr.Ticker = SentinelTicker
	assert.True(t, tr.IsDailySummary())
}

func TestSplitThemes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"ai, earnings ,  ", []string{"ai", "earnings"}},
		{"semis", []string{"semis"}},
		{" , ,", []string{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SplitThemes(tc.in), "input %q", tc.in)
	}
}

func TestParseNoteDate(t *testing.T) {
	d, err := ParseNoteDate("2024-01-31")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-31", d)

	_, err = ParseNoteDate("31/01/2024")
	assert.True(t, errors.Is(err, common.ErrValidation))
}
