package cashfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

// FXFeed returns the full cross-rate table of a day: the value of one unit of
// each currency expressed in the base currency. One call covers all
// currencies for that date.
type FXFeed interface {
	DayRates(ctx context.Context, on date.Date) (map[string]decimal.Decimal, error)
}

// CryptoFeed returns the full cryptocurrency table of a day. Rates are
// expressed as units of each cryptocurrency per one base currency, so the
// stored relation must be inverted before use.
type CryptoFeed interface {
	DayRates(ctx context.Context, on date.Date) (map[string]decimal.Decimal, error)
}

// SecurityFeed returns a single closing price for a symbol on a date,
// denominated in the security's trade currency. ok is false when the feed has
// no quote for that exact day (e.g. a non-trading day).
type SecurityFeed interface {
	ClosePrice(ctx context.Context, symbol string, on date.Date) (price decimal.Decimal, ok bool, err error)
}

// securityBacktrackLimit bounds the date-by-date retry for securities quoted
// on non-trading days.
const securityBacktrackLimit = 15

// backtrackedPriceTTL expires a backtracked price quickly: it is only a
// stand-in until a same-day price exists.
const backtrackedPriceTTL = 24 * time.Hour

// Rates resolves historical unit prices versus a fixed base currency and
// converts amounts between any two units by triangulating through it. All
// cache traffic goes through the injected Cache; the primary store is never
// touched.
type Rates struct {
	base       string
	cache      Cache
	fx         FXFeed
	crypto     CryptoFeed
	securities SecurityFeed
}

// NewRates creates a rate provider pivoting on the given base currency.
func NewRates(baseCurrency string, cache Cache, fx FXFeed, crypto CryptoFeed, securities SecurityFeed) *Rates {
	return &Rates{base: baseCurrency, cache: cache, fx: fx, crypto: crypto, securities: securities}
}

// BaseCurrency returns the pivot currency of the provider.
func (r *Rates) BaseCurrency() string { return r.base }

var one = decimal.NewFromInt(1)

// Rate returns the value of one unit of u expressed in the base currency on
// the given date. The base currency itself rates exactly 1 without any I/O.
func (r *Rates) Rate(ctx context.Context, u Unit, on date.Date) (decimal.Decimal, error) {
	if err := u.Validate(); err != nil {
		return decimal.Zero, err
	}
	switch u.Kind() {
	case CurrencyUnit:
		if u.Label() == r.base {
			return one, nil
		}
		table, err := r.dayTable(ctx, "fx:"+on.String(), on, r.fx.DayRates, u)
		if err != nil {
			return decimal.Zero, err
		}
		rate, ok := table[u.Label()]
		if !ok || rate.IsZero() {
			return decimal.Zero, &RateUnavailableError{Unit: u, On: on}
		}
		return rate, nil

	case CryptocurrencyUnit:
		table, err := r.dayTable(ctx, "crypto:"+on.String(), on, r.crypto.DayRates, u)
		if err != nil {
			return decimal.Zero, err
		}
		// The table holds units of coin per one base currency.
		perBase, ok := table[u.Label()]
		if !ok || perBase.IsZero() {
			return decimal.Zero, &RateUnavailableError{Unit: u, On: on}
		}
		return one.Div(perBase), nil

	case SecurityUnit:
		price, err := r.securityPrice(ctx, u, on)
		if err != nil {
			return decimal.Zero, err
		}
		// The closing price is in the trade currency; one more hop through the
		// conversion service yields the base-currency rate.
		return r.Convert(ctx, price, Currency(u.TradeCurrency()), Currency(r.base), on)

	default:
		return decimal.Zero, &InvalidUnitError{Reason: fmt.Sprintf("unknown unit kind %d", u.Kind())}
	}
}

// Convert converts an amount from one unit to another on a given date. A zero
// amount never triggers a rate lookup, and identical units convert at exactly 1.
func (r *Rates) Convert(ctx context.Context, amount decimal.Decimal, from, to Unit, on date.Date) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if from == to {
		return amount, nil
	}
	fromRate, err := r.Rate(ctx, from, on)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := r.Rate(ctx, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	if toRate.IsZero() {
		return decimal.Zero, &RateUnavailableError{Unit: to, On: on}
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

// dayTable returns a full day's rate table, from the cache or from the feed.
// The whole table is cached under the date key so one fetch serves every
// currency of that day.
func (r *Rates) dayTable(ctx context.Context, key string, on date.Date, fetch func(context.Context, date.Date) (map[string]decimal.Decimal, error), u Unit) (map[string]decimal.Decimal, error) {
	table := make(map[string]decimal.Decimal)

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, &RateUnavailableError{Unit: u, On: on, Err: err}
	}
	if ok {
		if err := json.Unmarshal([]byte(cached), &table); err != nil {
			return nil, &RateUnavailableError{Unit: u, On: on, Err: err}
		}
		return table, nil
	}

	table, err = fetch(ctx, on)
	if err != nil {
		return nil, &RateUnavailableError{Unit: u, On: on, Err: err}
	}
	encoded, err := json.Marshal(table)
	if err != nil {
		return nil, &RateUnavailableError{Unit: u, On: on, Err: err}
	}
	if err := r.cache.Set(ctx, key, string(encoded), 0); err != nil {
		return nil, &RateUnavailableError{Unit: u, On: on, Err: err}
	}
	return table, nil
}

// securityPrice returns the closing price of a security on a date, in its
// trade currency. When the feed has no quote for the exact day it backtracks
// one day at a time, up to securityBacktrackLimit attempts. A backtracked
// price is cached under the originally requested date with a short expiry so
// a real same-day price can supersede it.
func (r *Rates) securityPrice(ctx context.Context, u Unit, on date.Date) (decimal.Decimal, error) {
	key := "security:" + u.Label() + ":" + on.String()

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		return decimal.Zero, &RateUnavailableError{Unit: u, On: on, Err: err}
	}
	if ok {
		price, err := decimal.NewFromString(cached)
		if err != nil {
			return decimal.Zero, &RateUnavailableError{Unit: u, On: on, Err: err}
		}
		return price, nil
	}

	for attempt := 0; attempt < securityBacktrackLimit; attempt++ {
		price, ok, err := r.securities.ClosePrice(ctx, u.Label(), on.Add(-attempt))
		if err != nil {
			return decimal.Zero, &RateUnavailableError{Unit: u, On: on, Err: err}
		}
		if !ok {
			continue
		}
		var ttl time.Duration
		if attempt > 0 {
			ttl = backtrackedPriceTTL
		}
		if err := r.cache.Set(ctx, key, price.String(), ttl); err != nil {
			return decimal.Zero, &RateUnavailableError{Unit: u, On: on, Err: err}
		}
		return price, nil
	}
	return decimal.Zero, &RateUnavailableError{Unit: u, On: on,
		Err: fmt.Errorf("no closing price within %d days", securityBacktrackLimit)}
}
