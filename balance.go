package cashfolio

import (
	"context"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

// LedgerRow is one booking valued in a target unit, with the running balance
// after applying it.
type LedgerRow struct {
	Booking Booking
	Value   decimal.Decimal // booking value in the target unit, as of the booking date
	Balance decimal.Decimal // running balance after this booking
}

// LedgerRows computes the ledger view of an ordered booking sequence in any
// target unit. Each booking's native value is converted as of its own date and
// added to a running total seeded by the opening balance.
//
// Bookings must be pre-sorted ascending by date; the engine never sorts.
// Same-day bookings are applied in caller-supplied order. A RateUnavailable
// aborts the whole computation; there is no partial ledger.
func (s *System) LedgerRows(ctx context.Context, bookings []Booking, target Unit, opening decimal.Decimal) ([]LedgerRow, error) {
	rows := make([]LedgerRow, 0, len(bookings))
	balance := opening
	for _, b := range bookings {
		value, err := s.Rates.Convert(ctx, b.Value, b.Unit, target, b.On)
		if err != nil {
			return nil, err
		}
		balance = balance.Add(value)
		rows = append(rows, LedgerRow{Booking: b, Value: value, Balance: balance})
	}
	return rows, nil
}

// Balance is the degenerate case of LedgerRows: the sum of converted values
// only, with no row list.
func (s *System) Balance(ctx context.Context, bookings []Booking, target Unit) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range bookings {
		value, err := s.Rates.Convert(ctx, b.Value, b.Unit, target, b.On)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// balanceSeriesKey is the time-series cache key holding an account's
// native-unit balances, one entry per queried date.
func balanceSeriesKey(accountID string) string { return "balance:" + accountID }

// BalanceAsOf returns the account's balance on a date, expressed in the given
// unit. The native-unit balance is cached per (account, date) so repeated
// queries across balance-sheet and income computations avoid recomputation;
// a request in any other unit converts the cached native balance as of 'on'.
func (s *System) BalanceAsOf(ctx context.Context, account Account, unit Unit, on date.Date) (decimal.Decimal, error) {
	native, err := s.nativeBalanceAsOf(ctx, account, on)
	if err != nil {
		return decimal.Zero, err
	}
	if unit == account.Unit {
		return native, nil
	}
	return s.Rates.Convert(ctx, native, account.Unit, unit, on)
}

func (s *System) nativeBalanceAsOf(ctx context.Context, account Account, on date.Date) (decimal.Decimal, error) {
	key := balanceSeriesKey(account.ID)
	cached, ok, err := s.cache.SeriesGet(ctx, key, on)
	if err != nil {
		return decimal.Zero, err
	}
	if ok {
		return decimal.NewFromString(cached)
	}

	bookings, err := s.Rows.BookingsForAccount(ctx, account.ID, on)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := s.Balance(ctx, bookings, account.Unit)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.cache.SeriesSet(ctx, key, on, balance.String()); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// InvalidateBalances purges every cached balance of the account at or after
// 'from'. Booking mutations must call this with the booking's date: balances
// at and after that date are stale.
func (s *System) InvalidateBalances(ctx context.Context, accountID string, from date.Date) error {
	return s.cache.SeriesDeleteFrom(ctx, balanceSeriesKey(accountID), from)
}
