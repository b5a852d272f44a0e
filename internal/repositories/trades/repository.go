package trades

import (
	"context"

	"github.com/dmitrijs2005/stockjournal/internal/models"
)

// Query describes a trade listing request: an optional case-insensitive
// substring search over ticker/stock_name, an order column, direction and
// a result cap. It replaces ad-hoc query-builder chains so the transport
// stays behind a single Select call.
type Query struct {
	Search    string
	OrderBy   string
	Ascending bool
	Limit     int
}

type Repository interface {
	Create(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	Select(ctx context.Context, q Query) ([]*models.Trade, error)
	Update(ctx context.Context, id string, trade *models.Trade) (*models.Trade, error)
	Delete(ctx context.Context, id string) error
	// SelectOneID fetches at most one id, as a minimal connectivity probe.
	SelectOneID(ctx context.Context) error
}
