package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockjournal/internal/common"
)

// NoteDateLayout is the calendar-date format used for daily notes.
const NoteDateLayout = "2006-01-02"

// DailyNote is one per-day free-text market summary. At most one note
// exists per note_date; the saving endpoint upserts by date.
type DailyNote struct {
	ID        string   `json:"id"`
	NoteDate  string   `json:"note_date"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	ImageURLs []string `json:"image_urls"`
}

// ParseNoteDate validates a calendar date in NoteDateLayout form and
// returns it normalized.
func ParseNoteDate(s string) (string, error) {
	d, err := time.Parse(NoteDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid note date %q", common.ErrValidation, s)
	}
	return d.Format(NoteDateLayout), nil
}
