// Package quotes implements the best-effort last-price lookup used to
// pre-fill the trade form. Any fault yields "no quote", never an error.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public Yahoo Finance chart API.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches quotes over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a quote client against the given base URL, or the
// public endpoint when baseURL is empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Fetch returns the last traded price for ticker. It is best effort by
// contract: transport faults, bad statuses, and malformed or incomplete
// payloads all come back as ok=false.
func (c *Client) Fetch(ctx context.Context, ticker string) (decimal.Decimal, bool) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, false
	}
	req.Header.Set("User-Agent", "stockjournal/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, false
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return decimal.Zero, false
	}
	if len(parsed.Chart.Result) == 0 || parsed.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return decimal.Zero, false
	}

	return decimal.NewFromFloat(*parsed.Chart.Result[0].Meta.RegularMarketPrice), true
}
