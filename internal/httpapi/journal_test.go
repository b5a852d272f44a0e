package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/stockjournal/internal/common"
	"github.com/dmitrijs2005/stockjournal/internal/logging"
	"github.com/dmitrijs2005/stockjournal/internal/models"
	"github.com/dmitrijs2005/stockjournal/internal/quotes"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/dailynotes"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/trades"
	"github.com/dmitrijs2005/stockjournal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- fakes shared by the handler tests --------

type fakeTradesRepo struct {
	trades.Repository

	selectRows []*models.Trade
	lastQuery  trades.Query
	deleted    []string
	probeErr   error
}

func (f *fakeTradesRepo) Create(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	stored := *t
	stored.ID = "t1"
	return &stored, nil
}

func (f *fakeTradesRepo) Select(ctx context.Context, q trades.Query) ([]*models.Trade, error) {
	f.lastQuery = q
	return f.selectRows, nil
}

func (f *fakeTradesRepo) Update(ctx context.Context, id string, t *models.Trade) (*models.Trade, error) {
	stored := *t
	stored.ID = id
	return &stored, nil
}

func (f *fakeTradesRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTradesRepo) SelectOneID(ctx context.Context) error {
	return f.probeErr
}

type fakeNotesRepo struct {
	dailynotes.Repository

	byDate  map[string]*models.DailyNote
	lastQ   dailynotes.Query
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
	return &stored, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, id string, n *models.DailyNote) (*models.DailyNote, error) {
	stored := *n
	stored.ID = id
	return &stored, nil
}

func (f *fakeNotesRepo) Select(ctx context.Context, q dailynotes.Query) ([]*models.DailyNote, error) {
	f.lastQ = q
	return []*models.DailyNote{}, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBlobStore struct {
	key string
	err error
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.key = key
	return f.err
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "http://127.0.0.1:9000/trade-images/" + key
}

func newJournalServer(t *testing.T, repo *fakeTradesRepo, quoteURL string) *httptest.Server {
	t.Helper()
	journal := services.NewJournal(repo, &fakeBlobStore{})
	api := NewJournalAPI(journal, quotes.NewClient(quoteURL), logging.NewDefault())
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// -------- tests --------

func TestCreateTrade_Endpoint(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	payload := `{"ticker":"aapl","trade_date":"2024-03-05T14:30:00","trade_type":"buy","price":150,"quantity":10,"themes_text":"ai, earnings"}`
	resp, err := http.Post(srv.URL+"/api/trades", "application/json", strings.NewReader(payload))
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	trade := body["trade"].(map[string]any)
	assert.Equal(t, "t1", trade["id"])
	assert.Equal(t, "AAPL", trade["ticker"])
	assert.Equal(t, "AAPL", trade["stock_name"], "empty stock name must default to ticker")
	assert.Equal(t, []any{"ai", "earnings"}, trade["themes"])
}

func TestCreateTrade_ValidationFailure(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	payload := `{"ticker":"","trade_date":"2024-03-05","price":0,"quantity":0}`
	resp, err := http.Post(srv.URL+"/api/trades", "application/json", strings.NewReader(payload))
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestCreateTrade_MalformedBody(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	resp, err := http.Post(srv.URL+"/api/trades", "application/json", strings.NewReader(`{nope`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTrades_ForwardsQueryAndFiltersSentinel(t *testing.T) {
	repo := &fakeTradesRepo{selectRows: []*models.Trade{
		{ID: "t1", Ticker: "TSLA"},
		{ID: "s1", Ticker: models.SentinelTicker},
	}}
	srv := newJournalServer(t, repo, "")

	resp, err := http.Get(srv.URL + "/api/trades?search=tsla&order_by=price&asc=true&limit=5")
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["trades"], 1)

	assert.Equal(t, trades.Query{Search: "tsla", OrderBy: "price", Ascending: true, Limit: 5}, repo.lastQuery)
}

func TestDeleteTrade_Endpoint(t *testing.T) {
	repo := &fakeTradesRepo{}
	srv := newJournalServer(t, repo, "")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/trades/t9", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{"t9"}, repo.deleted)
}

func TestSaveSummary_Endpoint(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	payload := `{"date":"2024-03-05","theme":"semis","summary":"NVDA day"}`
	resp, err := http.Post(srv.URL+"/api/summary", "application/json", strings.NewReader(payload))
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, models.SentinelTicker, summary["ticker"])
}

func TestQuote_Endpoint(t *testing.T) {
	quoteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":150.25}}]}}`))
	}))
	defer quoteSrv.Close()

	srv := newJournalServer(t, &fakeTradesRepo{}, quoteSrv.URL)

	resp, err := http.Get(srv.URL + "/api/quote/AAPL")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "150.25", body["price"])
}

func TestQuote_EndpointBestEffortNull(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "http://127.0.0.1:1")

	resp, err := http.Get(srv.URL + "/api/quote/AAPL")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["price"])
}

func TestUpload_Endpoint(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "chart.webp")
	require.NoError(t, err)
	fw.Write([]byte("imagebytes"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.True(t, strings.HasSuffix(body["url"].(string), ".webp"), "url %v", body["url"])
}

func TestUpload_MissingFile(t *testing.T) {
	srv := newJournalServer(t, &fakeTradesRepo{}, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth_Endpoint(t *testing.T) {
	repo := &fakeTradesRepo{}
	srv := newJournalServer(t, repo, "")

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	repo.probeErr = assertableErr("connection refused")
	resp, err = http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "connection refused")
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }
