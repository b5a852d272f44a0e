// Package dailynotes provides the PostgreSQL-backed repository for daily
// market-summary notes, keyed one-per-calendar-date.
package dailynotes

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

const defaultLimit = 30

const noteColumns = `id::text, note_date::text, content, tags, image_urls`

// PostgresRepository implements note storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanNote(row interface{ Scan(...any) error }) (*models.DailyNote, error) {
	var n models.DailyNote
	var tags, urls []byte
	if err := row.Scan(&n.ID, &n.NoteDate, &n.Content, &tags, &urls); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &n.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(urls, &n.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	return &n, nil
}

func jsonParam(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts one note row and returns the stored row with its id.
func (r *PostgresRepository) Create(ctx context.Context, note *models.DailyNote) (*models.DailyNote, error) {
	tags, err := jsonParam(note.Tags)
	if err != nil {
		return nil, err
	}
	urls, err := jsonParam(note.ImageURLs)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO daily_notes (note_date, content, tags, image_urls)
		VALUES ($1::date, $2, $3::jsonb, $4::jsonb)
		RETURNING ` + noteColumns

	stored, err := scanNote(r.db.QueryRowContext(ctx, query, note.NoteDate, note.Content, tags, urls))
	if err != nil {
		return nil, fmt.Errorf("%w: insert daily note: %v", common.ErrStoreWrite, err)
	}
	return stored, nil
}

// GetByDate returns the note for the given date or ErrNotFound. Absence is
// reported as the sentinel, never as a transport failure.
func (r *PostgresRepository) GetByDate(ctx context.Context, date string) (*models.DailyNote, error) {
	query := `SELECT ` + noteColumns + ` FROM daily_notes WHERE note_date = $1::date`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get daily note by date: %w", err)
	}
	return note, nil
}

// Select returns notes matching the query, newest first, possibly empty,
// never nil. Tag filtering uses JSON containment against the tags list.
func (r *PostgresRepository) Select(ctx context.Context, q Query) ([]*models.DailyNote, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT ` + noteColumns + ` FROM daily_notes`
	conds := []string{}
	args := []any{}
	if q.Tag != "" {
		args = append(args, q.Tag)
		conds = append(conds, fmt.Sprintf("tags @> to_jsonb($%d::text)", len(args)))
	}
	if q.From != "" {
		args = append(args, q.From)
		conds = append(conds, fmt.Sprintf("note_date >= $%d::date", len(args)))
	}
	if q.To != "" {
		args = append(args, q.To)
		conds = append(conds, fmt.Sprintf("note_date <= $%d::date", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY note_date DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select daily notes: %w", err)
	}
	defer rows.Close()

	result := []*models.DailyNote{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites the content fields of the note matching id and returns
// the updated row. A missing row maps to ErrStoreWrite.
func (r *PostgresRepository) Update(ctx context.Context, id string, note *models.DailyNote) (*models.DailyNote, error) {
	tags, err := jsonParam(note.Tags)
	if err != nil {
		return nil, err
	}
	urls, err := jsonParam(note.ImageURLs)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE daily_notes
		SET content = $2, tags = $3::jsonb, image_urls = $4::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING ` + noteColumns

	stored, err := scanNote(r.db.QueryRowContext(ctx, query, id, note.Content, tags, urls))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: update daily note %s: no row matched", common.ErrStoreWrite, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update daily note %s: %v", common.ErrStoreWrite, id, err)
	}
	return stored, nil
}

// Delete removes the note matching id; a non-existent id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete daily note %s: %v", common.ErrStoreWrite, id, err)
	}
	return nil
}
