package coinbase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

func TestDayRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("currency"); got != "USD" {
			t.Errorf("currency = %q, want USD", got)
		}
		fmt.Fprint(w, `{"data": {"currency": "USD", "rates": {"BTC": "0.0000221", "ETH": "0.00042"}}}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL)
	rates, err := c.DayRates(context.Background(), date.MustParse("2024-01-03"))
	if err != nil {
		t.Fatalf("DayRates: %v", err)
	}
	if got := rates["BTC"]; !got.Equal(decimal.RequireFromString("0.0000221")) {
		t.Errorf("BTC = %s, want the raw per-USD rate 0.0000221", got)
	}
}

func TestDayRates_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"id": "rate_limit_exceeded", "message": "too many requests"}]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL)
	if _, err := c.DayRates(context.Background(), date.MustParse("2024-01-03")); err == nil {
		t.Fatal("DayRates succeeded on an error payload")
	}
}
