package dailynotes

import (
	"context"

	"github.com/dmitrijs2005/stockjournal/internal/models"
)

// Query describes a note listing request. All provided filters are ANDed;
// results are always newest first.
type Query struct {
	Tag   string
	From  string
	To    string
	Limit int
}

type Repository interface {
	Create(ctx context.Context, note *models.DailyNote) (*models.DailyNote, error)
	// GetByDate returns the single note for a calendar date, or ErrNotFound.
	GetByDate(ctx context.Context, date string) (*models.DailyNote, error)
	Select(ctx context.Context, q Query) ([]*models.DailyNote, error)
	Update(ctx context.Context, id string, note *models.DailyNote) (*models.DailyNote, error)
	Delete(ctx context.Context, id string) error
}
