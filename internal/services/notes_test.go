package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/dailynotes"
)

type fakeNotesRepo struct {
	dailynotes.Repository

	byDate map[string]*models.DailyNote

	created *models.DailyNote
	updated *models.DailyNote
	lastID  string

	deleted []string
}

func (f *fakeNotesRepo) GetByDate(ctx context.Context, date string) (*models.DailyNote, error) {
	if n, ok := f.byDate[date]; ok {
		return n, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeNotesRepo) Create(ctx context.Context, n *models.DailyNote) (*models.DailyNote, error) {
	stored := *n
	stored.ID = "n1"
	f.created = &stored
	return &stored, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, id string, n *models.DailyNote) (*models.DailyNote, error) {
	stored := *n
	stored.ID = id
	f.updated = &stored
	f.lastID = id
	return &stored, nil
}

func (f *fakeNotesRepo) Select(ctx context.Context, q dailynotes.Query) ([]*models.DailyNote, error) {
	return []*models.DailyNote{}, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSaveNote_InsertsWhenAbsent(t *testing.T) {
	repo := &fakeNotesRepo{byDate: map[string]*models.DailyNote{}}
	svc := NewNotes(repo)

	stored, err := svc.SaveNote(context.Background(), &models.DailyNote{
		NoteDate: "2024-01-15",
		Content:  "first take",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created == nil || repo.updated != nil {
		t.Fatal("expected an insert, not an update")
	}
	if stored.ID != "n1" {
		t.Fatalf("expected assigned id, got %q", stored.ID)
	}
}

func TestSaveNote_UpdatesExistingDate(t *testing.T) {
	repo := &fakeNotesRepo{byDate: map[string]*models.DailyNote{
		"2024-01-15": {ID: "n7", NoteDate: "2024-01-15", Content: "first take"},
	}}
	svc := NewNotes(repo)

	stored, err := svc.SaveNote(context.Background(), &models.DailyNote{
		NoteDate: "2024-01-15",
		Content:  "second take",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created != nil {
		t.Fatal("must not insert a second note for the same date")
	}
	if repo.lastID != "n7" {
		t.Fatalf("expected update of existing id n7, got %q", repo.lastID)
	}
	if stored.Content != "second take" {
		t.Fatalf("expected last write to win, got %q", stored.Content)
	}
}

func TestSaveNote_InvalidDate(t *testing.T) {
	svc := NewNotes(&fakeNotesRepo{byDate: map[string]*models.DailyNote{}})

	_, err := svc.SaveNote(context.Background(), &models.DailyNote{NoteDate: "someday"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestGetNoteByDate_AbsenceIsNotAnError(t *testing.T) {
	svc := NewNotes(&fakeNotesRepo{byDate: map[string]*models.DailyNote{}})

	note, err := svc.GetNoteByDate(context.Background(), "2024-01-16")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note, got %+v", note)
	}
}

func TestGetNoteByDate_Found(t *testing.T) {
	repo := &fakeNotesRepo{byDate: map[string]*models.DailyNote{
		"2024-01-15": {ID: "n7", NoteDate: "2024-01-15"},
	}}
	svc := NewNotes(repo)

	note, err := svc.GetNoteByDate(context.Background(), "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note == nil || note.ID != "n7" {
		t.Fatalf("unexpected note: %+v", note)
	}
}

func TestDeleteNote_Passthrough(t *testing.T) {
	repo := &fakeNotesRepo{}
	svc := NewNotes(repo)

	if err := svc.DeleteNote(context.Background(), "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "n1" {
		t.Fatalf("unexpected deletes: %v", repo.deleted)
	}
}
