package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/stockjournal/internal/logging"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/dailynotes"
	"github.com/dmitrijs2005/stockjournal/internal/services"
)

// NotesAPI holds the handlers of the secondary daily-notes server. It
// reuses the journal service only for the shared upload and health
// endpoints.
type NotesAPI struct {
	notes   *services.Notes
	journal *services.Journal
	log     logging.Logger
}

func NewNotesAPI(notes *services.Notes, journal *services.Journal, log logging.Logger) *NotesAPI {
	return &NotesAPI{notes: notes, journal: journal, log: log}
}

// Router builds the chi router for the notes server.
func (a *NotesAPI) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(a.journal))
		r.Get("/note/{date}", a.handleGetNote)
		r.Post("/note", a.handleSaveNote)
		r.Get("/notes", a.handleListNotes)
		r.Delete("/note/{id}", a.handleDeleteNote)
		r.Post("/upload", uploadHandler(a.journal, a.log))
	})

	return r
}

func (a *NotesAPI) handleGetNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	note, err := a.notes.GetNoteByDate(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	// note is nil when no entry exists for the date; that is a success.
	writeSuccess(w, map[string]any{"note": note})
}

type noteRequest struct {
	NoteDate  string   `json:"note_date"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	ImageURLs []string `json:"image_urls"`
}

func (a *NotesAPI) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if req.ImageURLs == nil {
		req.ImageURLs = []string{}
	}

	stored, err := a.notes.SaveNote(r.Context(), &models.DailyNote{
		NoteDate:  req.NoteDate,
		Content:   req.Content,
		Tags:      req.Tags,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		a.log.Error(r.Context(), "save note failed", "date", req.NoteDate, "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"note": stored})
}

func (a *NotesAPI) handleListNotes(w http.ResponseWriter, r *http.Request) {
	q := dailynotes.Query{
		Tag:  r.URL.Query().Get("tag"),
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		q.Limit, _ = strconv.Atoi(limit)
	}

	notes, err := a.notes.QueryNotes(r.Context(), q)
	if err != nil {
		a.log.Error(r.Context(), "list notes failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"notes": notes})
}

func (a *NotesAPI) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.notes.DeleteNote(r.Context(), id); err != nil {
		a.log.Error(r.Context(), "delete note failed", "id", id, "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}
