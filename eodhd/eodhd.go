// Package eodhd provides the security price feed: a single end-of-day closing
// price per symbol and date, denominated in the security's trade currency.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://eodhd.com/api"

// Client queries the EODHD end-of-day endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New returns a client using the production endpoint.
func New(apiKey string) *Client { return NewWithBaseURL(apiKey, defaultBaseURL) }

// NewWithBaseURL returns a client against an alternative endpoint, mostly for tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, client: http.DefaultClient}
}

// ClosePrice returns the closing price of a symbol on a date. ok is false when
// the feed has no entry for that exact day, which is what non-trading days
// look like; callers are expected to backtrack.
func (c *Client) ClosePrice(ctx context.Context, symbol string, on date.Date) (decimal.Decimal, bool, error) {
	// https://eodhd.com/api/eod/AAPL.US?fmt=json&api_token=...&from=2024-01-03&to=2024-01-03
	// [
	//   { "date": "2024-01-03", "open": 184.22, "close": 184.25, ... }
	// ]
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.baseURL, symbol, c.apiKey, on, on)

	type entry struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	content := make([]entry, 0, 1)
	if err := jwget(ctx, c.client, addr, &content); err != nil {
		return decimal.Decimal{}, false, err
	}
	for _, e := range content {
		if e.Date == on {
			return e.Close, true, nil
		}
	}
	return decimal.Decimal{}, false, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response body
// into the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
