// Package trades provides the PostgreSQL-backed repository for trade
// records, including the sentinel daily-summary rows.
package trades

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/dbx"
	"github.com/dmitrijs2005/stockjournal/internal/models"
)

const (
	defaultLimit   = 100
	defaultOrderBy = "trade_date"
)

// Columns valid as ORDER BY targets. Anything else falls back to trade_date.
var orderableColumns = map[string]struct{}{
	"trade_date": {},
	"ticker":     {},
	"stock_name": {},
	"trade_type": {},
	"price":      {},
	"quantity":   {},
	"created_at": {},
}

const tradeColumns = `id::text, stock_name, ticker, trade_date, trade_type, price, quantity, COALESCE(mood, ''), reason, themes, COALESCE(image_url, '')`

// PostgresRepository implements trade storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTrade(row interface{ Scan(...any) error }) (*models.Trade, error) {
	var t models.Trade
	var themes []byte
	if err := row.Scan(
		&t.ID, &t.StockName, &t.Ticker, &t.TradeDate, &t.TradeType,
		&t.Price, &t.Quantity, &t.Mood, &t.Reason, &themes, &t.ImageURL,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(themes, &t.Themes); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	return &t, nil
}

func themesParam(themes []string) (string, error) {
	if themes == nil {
		themes = []string{}
	}
	b, err := json.Marshal(themes)
	if err != nil {
		return "", fmt.Errorf("encode themes: %w", err)
	}
	return string(b), nil
}

// Create inserts one trade row and returns the stored row with its
// store-assigned id. A transport fault or empty result maps to ErrStoreWrite.
func (r *PostgresRepository) Create(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	themes, err := themesParam(trade.Themes)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO trades (stock_name, ticker, trade_date, trade_type, price, quantity, mood, reason, themes, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9::jsonb, NULLIF($10, ''))
		RETURNING ` + tradeColumns

	stored, err := scanTrade(r.db.QueryRowContext(ctx, query,
		trade.StockName, trade.Ticker, trade.TradeDate, trade.TradeType,
		trade.Price, trade.Quantity, trade.Mood, trade.Reason, themes, trade.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("%w: insert trade: %v", common.ErrStoreWrite, err)
	}
	return stored, nil
}

// Select returns trades matching the query, possibly empty, never nil.
// The keyword filter is one disjunctive ILIKE over ticker and stock_name.
func (r *PostgresRepository) Select(ctx context.Context, q Query) ([]*models.Trade, error) {
	orderBy := q.OrderBy
	if _, ok := orderableColumns[orderBy]; !ok {
		orderBy = defaultOrderBy
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT ` + tradeColumns + ` FROM trades`
	args := []any{}
	if q.Search != "" {
		query += ` WHERE (ticker ILIKE $1 OR stock_name ILIKE $1)`
		args = append(args, "%"+q.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY %s %s LIMIT $%d`, orderBy, direction, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select trades: %w", err)
	}
	defer rows.Close()

	result := []*models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites the journal fields of the row matching id and returns
// the updated row. A missing row maps to ErrStoreWrite.
func (r *PostgresRepository) Update(ctx context.Context, id string, trade *models.Trade) (*models.Trade, error) {
	themes, err := themesParam(trade.Themes)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE trades
		SET stock_name = $2, ticker = $3, trade_date = $4, trade_type = $5,
			price = $6, quantity = $7, mood = NULLIF($8, ''), reason = $9,
			themes = $10::jsonb, image_url = NULLIF($11, '')
		WHERE id = $1
		RETURNING ` + tradeColumns

	stored, err := scanTrade(r.db.QueryRowContext(ctx, query,
		id, trade.StockName, trade.Ticker, trade.TradeDate, trade.TradeType,
		trade.Price, trade.Quantity, trade.Mood, trade.Reason, themes, trade.ImageURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: update trade %s: no row matched", common.ErrStoreWrite, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update trade %s: %v", common.ErrStoreWrite, id, err)
	}
	return stored, nil
}

// Delete removes the row matching id. Deleting an id that matches nothing
// is still a success; only transport faults are reported.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete trade %s: %v", common.ErrStoreWrite, id, err)
	}
	return nil
}

// SelectOneID reads at most one id from the trades table. An empty table
// is a healthy outcome; only transport faults are errors.
func (r *PostgresRepository) SelectOneID(ctx context.Context) error {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id::text FROM trades LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
