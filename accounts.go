package cashfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts and account groups.
type AccountType int

const (
	Asset AccountType = iota
	Liability
	Equity
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Equity:
		return "equity"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "equity":
		return Equity, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// AccountGroup is a node of the per-type account forest. Groups of a type form
// a tree rooted at the single group of that type without a parent.
type AccountGroup struct {
	ID            string
	Name          string
	Type          AccountType
	ParentGroupID string // empty for a root group
	SortOrder     *int   // explicit ordering, nil when unset
}

// Account is a leaf of the account hierarchy. Its balance is denominated in
// its unit. Virtual accounts are synthesized by the income engine and carry a
// zero unit; they are never persisted.
type Account struct {
	ID        string
	Name      string
	Type      AccountType
	GroupID   string
	Unit      Unit
	IsActive  bool
	SortOrder *int
	Virtual   bool
}

// Booking is one leg of a transaction: a dated value on an account,
// denominated in the account's unit.
type Booking struct {
	ID            string
	TransactionID string
	AccountID     string
	On            Date
	Value         decimal.Decimal
	Unit          Unit
	Description   string
}

// Transaction is an ordered set of at least two bookings. When all bookings
// share one unit their values sum to exactly zero; cross-unit transactions
// are permitted and are the source of transaction gain/loss.
type Transaction struct {
	ID          string
	Description string
	Bookings    []Booking
}

// LatestBookingDate returns the date of the transaction's latest booking.
func (t Transaction) LatestBookingDate() Date {
	var latest Date
	for _, b := range t.Bookings {
		if b.On.After(latest) {
			latest = b.On
		}
	}
	return latest
}

// AccountBook is one ledger: a reference currency for all reports, and
// optional designated equity groups that receive the synthesized holding
// gain/loss accounts per asset class.
type AccountBook struct {
	ID                string
	ReferenceCurrency string

	// Designated equity groups for synthesized gain/loss accounts, optional.
	SecurityGainLossGroupID string
	CryptoGainLossGroupID   string
	FXGainLossGroupID       string
}

// RowSource supplies already-queried, date-ordered rows from the persistence
// layer. The engine performs no I/O against the primary store itself.
type RowSource interface {
	// BookingsForAccount returns the account's bookings up to and including
	// 'until', ascending by date.
	BookingsForAccount(ctx context.Context, accountID string, until Date) ([]Booking, error)

	// BookingsInRange returns the account's bookings within the range,
	// ascending by date.
	BookingsInRange(ctx context.Context, accountID string, rng Range) ([]Booking, error)

	// TransactionsInPeriod returns every transaction whose latest booking date
	// falls within the range, bookings included.
	TransactionsInPeriod(ctx context.Context, rng Range) ([]Transaction, error)
}
