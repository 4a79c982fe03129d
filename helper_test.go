package cashfolio

import (
	"context"
	"testing"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

// dec parses a decimal literal for test fixtures.
func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) date.Date { return date.MustParse(s) }

// fakeFX is an FXFeed serving canned day tables and counting fetches.
type fakeFX struct {
	tables map[string]map[string]decimal.Decimal // keyed by date string
	calls  int
}

func (f *fakeFX) DayRates(_ context.Context, on date.Date) (map[string]decimal.Decimal, error) {
	f.calls++
	t, ok := f.tables[on.String()]
	if !ok {
		return map[string]decimal.Decimal{}, nil
	}
	return t, nil
}

// fakeCrypto is a CryptoFeed serving canned coins-per-base tables.
type fakeCrypto struct {
	tables map[string]map[string]decimal.Decimal
	calls  int
}

func (f *fakeCrypto) DayRates(_ context.Context, on date.Date) (map[string]decimal.Decimal, error) {
	f.calls++
	t, ok := f.tables[on.String()]
	if !ok {
		return map[string]decimal.Decimal{}, nil
	}
	return t, nil
}

// fakeSec is a SecurityFeed with closing prices keyed by "SYMBOL:date".
type fakeSec struct {
	prices map[string]decimal.Decimal
	calls  int
}

func (f *fakeSec) ClosePrice(_ context.Context, symbol string, on date.Date) (decimal.Decimal, bool, error) {
	f.calls++
	p, ok := f.prices[symbol+":"+on.String()]
	return p, ok, nil
}

// fakeRows is an in-memory RowSource over pre-sorted bookings.
type fakeRows struct {
	bookings     map[string][]Booking // keyed by account ID, ascending by date
	transactions []Transaction
	loads        int // BookingsForAccount calls, to observe balance caching
}

func (f *fakeRows) BookingsForAccount(_ context.Context, accountID string, until date.Date) ([]Booking, error) {
	f.loads++
	var out []Booking
	for _, b := range f.bookings[accountID] {
		if !b.On.After(until) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRows) BookingsInRange(_ context.Context, accountID string, rng date.Range) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings[accountID] {
		if rng.Contains(b.On) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRows) TransactionsInPeriod(_ context.Context, rng date.Range) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range f.transactions {
		if rng.Contains(tx.LatestBookingDate()) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// newTestSystem wires a System over fakes, pivoting rates on USD.
func newTestSystem(t *testing.T, book AccountBook, rows *fakeRows, fx *fakeFX, crypto *fakeCrypto, sec *fakeSec) (*System, *MemoryCache) {
	t.Helper()
	if book.ReferenceCurrency == "" {
		book.ReferenceCurrency = "USD"
	}
	if rows == nil {
		rows = &fakeRows{}
	}
	if fx == nil {
		fx = &fakeFX{}
	}
	if crypto == nil {
		crypto = &fakeCrypto{}
	}
	if sec == nil {
		sec = &fakeSec{}
	}
	cache := NewMemoryCache()
	rates := NewRates("USD", cache, fx, crypto, sec)
	system, err := NewSystem(book, rows, rates, cache)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return system, cache
}
