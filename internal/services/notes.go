package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/dailynotes"
)

// Notes implements the daily-notes operations, including the upsert-by-date
// save used by the notes server.
type Notes struct {
	notes dailynotes.Repository
}

func NewNotes(noteRepo dailynotes.Repository) *Notes {
	return &Notes{notes: noteRepo}
}

// SaveNote upserts the note for its date: update when a note already
// exists for that date, insert otherwise. Last write wins on concurrent
// saves for the same date.
func (s *Notes) SaveNote(ctx context.Context, note *models.DailyNote) (*models.DailyNote, error) {
	day, err := models.ParseNoteDate(note.NoteDate)
	if err != nil {
		return nil, err
	}
	note.NoteDate = day

	existing, err := s.notes.GetByDate(ctx, day)
	if errors.Is(err, common.ErrNotFound) {
		return s.notes.Create(ctx, note)
	}
	if err != nil {
		return nil, err
	}
	return s.notes.Update(ctx, existing.ID, note)
}

// GetNoteByDate returns the note for a date, or nil when none exists.
// Absence is a normal outcome, not an error.
func (s *Notes) GetNoteByDate(ctx context.Context, date string) (*models.DailyNote, error) {
	day, err := models.ParseNoteDate(date)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.GetByDate(ctx, day)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// QueryNotes lists notes newest first, with optional tag and date-range
// filters ANDed together.
func (s *Notes) QueryNotes(ctx context.Context, q dailynotes.Query) ([]*models.DailyNote, error) {
	return s.notes.Select(ctx, q)
}

// DeleteNote removes a note. Deleting an unknown id is a success.
func (s *Notes) DeleteNote(ctx context.Context, id string) error {
	return s.notes.Delete(ctx, id)
}
