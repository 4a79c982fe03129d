// Package currencylayer provides the historical FX feed: one call returns the
// full cross-rate table versus USD for a given day.
package currencylayer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.currencylayer.com"

// Client queries the currencylayer historical endpoint.
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

// DayRates returns the value of one unit of each quoted currency expressed in
// USD on the given day.
//
// The wire format quotes pairs the other way around ("USDCHF" is the amount
// of CHF one USD buys), so each quote is inverted here.
func (c *Client) DayRates(ctx context.Context, on date.Date) (map[string]decimal.Decimal, error) {
	// https://api.currencylayer.com/historical?date=2024-01-03&access_key=...
	// {
	//   "success": true,
	//   "historical": true,
	//   "date": "2024-01-03",
	//   "source": "USD",
	//   "quotes": { "USDCHF": 0.85236, "USDEUR": 0.91571, ... }
	// }
	addr := fmt.Sprintf("%s/historical?date=%s&access_key=%s", c.baseURL, on, c.apiKey)

	var payload struct {
		Success bool                       `json:"success"`
		Source  string                     `json:"source"`
		Quotes  map[string]decimal.Decimal `json:"quotes"`
		Error   *struct {
			Code int    `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := jwget(ctx, c.client, addr, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		if payload.Error != nil {
			return nil, fmt.Errorf("fx feed error %d: %s", payload.Error.Code, payload.Error.Info)
		}
		return nil, fmt.Errorf("fx feed returned an unsuccessful payload for %s", on)
	}

	rates := make(map[string]decimal.Decimal, len(payload.Quotes))
	for pair, quote := range payload.Quotes {
		if len(pair) != 6 || quote.IsZero() {
			continue
		}
		rates[pair[3:]] = one.Div(quote)
	}
	return rates, nil
}

var one = decimal.NewFromInt(1)

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
