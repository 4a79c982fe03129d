// Package coinbase provides the historical cryptocurrency feed: one call
// returns the full table of coin rates versus USD for a given day. Rates are
// expressed as units of coin per one USD; the rate provider inverts them.
package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.coinbase.com"

// Client queries the coinbase exchange-rates endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a client using the production endpoint.
func New() *Client { return NewWithBaseURL(defaultBaseURL) }

// NewWithBaseURL returns a client against an alternative endpoint, mostly for tests.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{baseURL: baseURL, client: http.DefaultClient}
}

// DayRates returns units of each cryptocurrency per one USD on the given day.
func (c *Client) DayRates(ctx context.Context, on date.Date) (map[string]decimal.Decimal, error) {
	// https://api.coinbase.com/v2/exchange-rates?currency=USD&date=2024-01-03
	// {
	//   "data": {
	//     "currency": "USD",
	//     "rates": { "BTC": "0.0000221", "ETH": "0.00042", ... }
	//   }
	// }
	addr := fmt.Sprintf("%s/v2/exchange-rates?currency=USD&date=%s", c.baseURL, on)

	var payload struct {
		Data *struct {
			Currency string                     `json:"currency"`
			Rates    map[string]decimal.Decimal `json:"rates"`
		} `json:"data"`
		Errors []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := jwget(ctx, c.client, addr, &payload); err != nil {
		return nil, err
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("crypto feed error %s: %s", payload.Errors[0].ID, payload.Errors[0].Message)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("crypto feed returned no data for %s", on)
	}
	return payload.Data.Rates, nil
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
