package cashfolio

import (
	"fmt"

	"github.com/felixmokross/cashfolio2-sub000/date"
)

// RateUnavailableError reports that no rate versus the base currency could be
// resolved for a unit on a date. It aborts the enclosing computation; a rate
// is never silently defaulted to 0 or 1.
type RateUnavailableError struct {
	Unit Unit
	On   date.Date
	Err  error // underlying feed or cache failure, may be nil
}

func (e *RateUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no rate for %s on %s: %v", e.Unit, e.On, e.Err)
	}
	return fmt.Sprintf("no rate for %s on %s", e.Unit, e.On)
}

func (e *RateUnavailableError) Unwrap() error { return e.Err }

// InvalidUnitError reports malformed unit data, which indicates a
// data-integrity bug upstream of the engine.
type InvalidUnitError struct {
	Reason string
}

func (e *InvalidUnitError) Error() string { return "invalid unit: " + e.Reason }

// MissingRootGroupError reports that a query expected a root account group for
// an account type and found none.
type MissingRootGroupError struct {
	Type AccountType
}

func (e *MissingRootGroupError) Error() string {
	return fmt.Sprintf("no root account group for type %s", e.Type)
}
