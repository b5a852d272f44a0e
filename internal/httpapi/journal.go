package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/logging"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/quotes"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/trades"
	"github.com/dmitrijs2005/stockjournal/internal/services"
	"github.com/shopspring/decimal"
)

// maxUploadBytes bounds in-memory multipart parsing, not the stored object.
const maxUploadBytes = 32 << 20

// JournalAPI holds the handlers of the full journal server.
type JournalAPI struct {
	journal *services.Journal
	quotes  *quotes.Client
	log     logging.Logger
}

func NewJournalAPI(journal *services.Journal, quoteClient *quotes.Client, log logging.Logger) *JournalAPI {
	return &JournalAPI{journal: journal, quotes: quoteClient, log: log}
}

// Router builds the chi router for the journal server.
func (a *JournalAPI) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Post("/trades", a.handleCreateTrade)
		r.Get("/trades", a.handleListTrades)
		r.Put("/trades/{id}", a.handleUpdateTrade)
		r.Delete("/trades/{id}", a.handleDeleteTrade)
		r.Post("/summary", a.handleSaveSummary)
		r.Post("/upload", uploadHandler(a.journal, a.log))
		r.Get("/quote/{ticker}", a.handleQuote)
	})

	return r
}

// tradeRequest is the wire form of a trade. The trade date arrives as an
// ISO-8601 string, with or without a zone, or as a bare date. Themes may
// come as a list or as the form's raw comma-separated text.
type tradeRequest struct {
	StockName  string          `json:"stock_name"`
	Ticker     string          `json:"ticker"`
	TradeDate  string          `json:"trade_date"`
	TradeType  string          `json:"trade_type"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Mood       string          `json:"mood"`
	Reason     string          `json:"reason"`
	Themes     []string        `json:"themes"`
	ThemesText string          `json:"themes_text"`
	ImageURL   string          `json:"image_url"`
}

var tradeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	models.NoteDateLayout,
}

func parseTradeDate(s string) (time.Time, error) {
	for _, layout := range tradeDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid trade date %q", common.ErrValidation, s)
}

func (req *tradeRequest) toTrade() (*models.Trade, error) {
	date, err := parseTradeDate(req.TradeDate)
	if err != nil {
		return nil, err
	}

	themes := req.Themes
	if len(themes) == 0 && req.ThemesText != "" {
		themes = models.SplitThemes(req.ThemesText)
	}
	if themes == nil {
		themes = []string{}
	}

	return &models.Trade{
		StockName: req.StockName,
		Ticker:    req.Ticker,
		TradeDate: date,
		TradeType: req.TradeType,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Mood:      req.Mood,
		Reason:    req.Reason,
		Themes:    themes,
		ImageURL:  req.ImageURL,
	}, nil
}

func (a *JournalAPI) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	trade, err := req.toTrade()
	if err != nil {
		writeError(w, err)
		return
	}

	stored, err := a.journal.CreateTrade(r.Context(), trade)
	if err != nil {
		a.log.Error(r.Context(), "create trade failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"trade": stored})
}

func (a *JournalAPI) handleListTrades(w http.ResponseWriter, r *http.Request) {
	q := trades.Query{
		Search:  r.URL.Query().Get("search"),
		OrderBy: r.URL.Query().Get("order_by"),
	}
	if asc := r.URL.Query().Get("asc"); asc != "" {
		q.Ascending, _ = strconv.ParseBool(asc)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		q.Limit, _ = strconv.Atoi(limit)
	}

	result, err := a.journal.ListTrades(r.Context(), q)
	if err != nil {
		a.log.Error(r.Context(), "list trades failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"trades": result})
}

func (a *JournalAPI) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	trade, err := req.toTrade()
	if err != nil {
		writeError(w, err)
		return
	}

	stored, err := a.journal.UpdateTrade(r.Context(), id, trade)
	if err != nil {
		a.log.Error(r.Context(), "update trade failed", "id", id, "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"trade": stored})
}

func (a *JournalAPI) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.journal.DeleteTrade(r.Context(), id); err != nil {
		a.log.Error(r.Context(), "delete trade failed", "id", id, "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

type summaryRequest struct {
	Date    string `json:"date"`
	Theme   string `json:"theme"`
	Summary string `json:"summary"`
}

func (a *JournalAPI) handleSaveSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	stored, err := a.journal.SaveDailySummary(r.Context(), req.Date, req.Theme, req.Summary)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"summary": stored})
}

func (a *JournalAPI) handleQuote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	price, ok := a.quotes.Fetch(r.Context(), ticker)
	if !ok {
		// Best effort by contract: no quote is a normal outcome.
		writeSuccess(w, map[string]any{"price": nil})
		return
	}
	writeSuccess(w, map[string]any{"price": price})
}

func (a *JournalAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthHandler(a.journal)(w, r)
}

// uploadHandler accepts a multipart image and returns the stored public
// URL. Shared by both servers.
func uploadHandler(journal *services.Journal, log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeBadRequest(w, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeBadRequest(w, "missing file")
			return
		}
		defer file.Close()

		if header.Filename == "" {
			writeBadRequest(w, "missing file name")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeBadRequest(w, "unreadable file")
			return
		}

		url, err := journal.UploadImage(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			log.Error(r.Context(), "image upload failed", "file", header.Filename, "err", err)
			writeError(w, err)
			return
		}
		writeSuccess(w, map[string]any{"url": url})
	}
}

// healthHandler runs the minimal store probe. Shared by both servers.
func healthHandler(journal *services.Journal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := journal.TestConnection(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, nil)
	}
}
