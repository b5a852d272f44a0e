// Package services holds the application services sitting between the HTTP
// handlers and the persistence layer.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/trades"
	"github.com/dmitrijs2005/stockjournal/internal/storage"
	"github.com/shopspring/decimal"
)

// Journal implements trade logging, listing, daily summaries, image upload
// and the store health probe.
type Journal struct {
	trades trades.Repository
	blobs  storage.BlobStore
}

func NewJournal(tradeRepo trades.Repository, blobs storage.BlobStore) *Journal {
	return &Journal{trades: tradeRepo, blobs: blobs}
}

func normalizeTrade(t *models.Trade) {
	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
	if strings.TrimSpace(t.StockName) == "" {
		t.StockName = t.Ticker
	}
}

// CreateTrade validates and normalizes a user-entered trade, then inserts
// it. The ticker is uppercased and an empty stock name defaults to the
// ticker. Returns the stored row including its assigned id.
func (s *Journal) CreateTrade(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	normalizeTrade(t)
	return s.trades.Create(ctx, t)
}

// ListTrades queries the store and drops sentinel daily-summary rows from
// the result. The rows stay directly retrievable through the repository.
func (s *Journal) ListTrades(ctx context.Context, q trades.Query) ([]*models.Trade, error) {
	rows, err := s.trades.Select(ctx, q)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Trade, 0, len(rows))
	for _, t := range rows {
		if !t.IsDailySummary() {
			result = append(result, t)
		}
	}
	return result, nil
}

// UpdateTrade overwrites the fields of an existing trade after the same
// validation and normalization as CreateTrade.
func (s *Journal) UpdateTrade(ctx context.Context, id string, t *models.Trade) (*models.Trade, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	normalizeTrade(t)
	return s.trades.Update(ctx, id, t)
}

// DeleteTrade removes a trade. Deleting an unknown id is a success.
func (s *Journal) DeleteTrade(ctx context.Context, id string) error {
	return s.trades.Delete(ctx, id)
}

// SaveDailySummary stores a daily market summary as a sentinel trade row:
// ticker DAILY_NOTE, zero price and quantity, the summary text as reason.
func (s *Journal) SaveDailySummary(ctx context.Context, date, theme, summary string) (*models.Trade, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("%w: summary text is required", common.ErrValidation)
	}
	day, err := models.ParseNoteDate(date)
	if err != nil {
		return nil, err
	}

	themes := []string{}
	if theme != "" {
		themes = append(themes, theme)
	}

	trade := &models.Trade{
		StockName: "Daily Summary - " + day,
		Ticker:    models.SentinelTicker,
		TradeDate: mustMidnight(day),
		TradeType: models.DailySummaryTradeType,
		Price:     decimal.Zero,
		Quantity:  decimal.Zero,
		Reason:    summary,
		Themes:    themes,
	}
	return s.trades.Create(ctx, trade)
}

// day has already passed ParseNoteDate.
func mustMidnight(day string) time.Time {
	d, _ := time.Parse(models.NoteDateLayout, day)
	return d
}

// UploadImage stores the payload under a fresh collision-resistant key and
// returns the bucket's public URL. An empty content type defaults to PNG.
func (s *Journal) UploadImage(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/png"
	}
	key := storage.StorageKey(fileName)
	if err := s.blobs.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return s.blobs.PublicURL(key), nil
}

// TestConnection issues a minimal read against the trade collection and
// wraps any fault in a connection-test error with a readable message.
func (s *Journal) TestConnection(ctx context.Context) error {
	if err := s.trades.SelectOneID(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConnection, err)
	}
	return nil
}
