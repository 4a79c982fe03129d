package cashfolio

import (
	"fmt"
)

// System encapsulates everything required to value an account book: the book
// itself, a row source for already-queried persistence rows, the rate
// provider, and the shared cache holding balance time-series.
//
// A System is request-scoped and stateless between calls; all mutable state
// lives in the injected cache, which is shared across concurrent requests.
type System struct {
	Book  AccountBook
	Rows  RowSource
	Rates *Rates

	cache Cache
}

// fanOutLimit bounds the concurrent leaf valuations issued by the
// balance-sheet and income queries. The work is I/O-bound (cache and feed
// round-trips), not CPU-bound.
const fanOutLimit = 8

// NewSystem creates a valuation system for one account book.
func NewSystem(book AccountBook, rows RowSource, rates *Rates, cache Cache) (*System, error) {
	if err := ValidateCurrency(book.ReferenceCurrency); err != nil {
		return nil, fmt.Errorf("invalid reference currency: %w", err)
	}
	return &System{Book: book, Rows: rows, Rates: rates, cache: cache}, nil
}

// ReferenceUnit returns the book's reference currency as a unit.
func (s *System) ReferenceUnit() Unit { return Currency(s.Book.ReferenceCurrency) }
