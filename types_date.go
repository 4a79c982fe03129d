package cashfolio

import (
	"time"

	"github.com/felixmokross/cashfolio2-sub000/date"
)

// Date is an alias so callers of this package rarely need to import the date
// package directly.
type Date = date.Date

// Range is an inclusive date range.
type Range = date.Range

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date { return date.New(year, month, day) }

// Today returns the current date.
func Today() Date { return date.Today() }

// ParseDate parses a Date from a string in ISO-8601 format.
func ParseDate(str string) (Date, error) { return date.Parse(str) }

// NewRange returns the inclusive range between from and to.
func NewRange(from, to Date) Range { return date.NewRange(from, to) }
