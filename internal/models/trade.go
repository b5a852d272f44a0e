// Package models defines the journal's persisted entities: trade records
// and daily notes.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/shopspring/decimal"
)

// SentinelTicker marks a trades row that is really a daily market summary.
// Rows with this ticker are kept out of trade-listing views.
const SentinelTicker = "DAILY_NOTE"

// DailySummaryTradeType is the trade_type label used for sentinel rows.
const DailySummaryTradeType = "daily_summary"

// Trade is one logged buy/sell action, or a daily summary when the ticker
// equals SentinelTicker.
type Trade struct {
	ID        string          `json:"id"`
	StockName string          `json:"stock_name"`
	Ticker    string          `json:"ticker"`
	TradeDate time.Time       `json:"trade_date"`
	TradeType string          `json:"trade_type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Mood      string          `json:"mood,omitempty"`
	Reason    string          `json:"reason"`
	Themes    []string        `json:"themes"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// IsDailySummary reports whether the row is a sentinel daily-summary entry.
func (t *Trade) IsDailySummary() bool {
	return t.Ticker == SentinelTicker
}

// Validate checks the required fields of a user-entered trade. Sentinel
// daily-summary rows are built internally and are not validated this way.
func (t *Trade) Validate() error {
	if strings.TrimSpace(t.Ticker) == "" {
		return fmt.Errorf("%w: ticker is required", common.ErrValidation)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", common.ErrValidation)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	return nil
}

// SplitThemes turns the comma-separated themes input into a list of tags,
// trimming whitespace and dropping empty entries.
func SplitThemes(s string) []string {
	parts := strings.Split(s, ",")
	themes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			themes = append(themes, p)
		}
	}
	return themes
}
