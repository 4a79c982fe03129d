package cashfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
)

// UnitKind discriminates the three kinds of units a balance can be denominated in.
type UnitKind int

const (
	// CurrencyUnit is a fiat currency identified by its ISO-4217 code.
	CurrencyUnit UnitKind = iota
	// CryptocurrencyUnit is a cryptocurrency identified by its code.
	CryptocurrencyUnit
	// SecurityUnit is a security identified by its symbol, traded in a currency.
	SecurityUnit
)

func (k UnitKind) String() string {
	switch k {
	case CurrencyUnit:
		return "currency"
	case CryptocurrencyUnit:
		return "cryptocurrency"
	case SecurityUnit:
		return "security"
	default:
		return "unknown"
	}
}

// ParseUnitKind parses a string into a UnitKind.
func ParseUnitKind(s string) (UnitKind, error) {
	switch s {
	case "currency":
		return CurrencyUnit, nil
	case "cryptocurrency":
		return CryptocurrencyUnit, nil
	case "security":
		return SecurityUnit, nil
	default:
		return 0, fmt.Errorf("unknown unit kind: %q", s)
	}
}

// Unit identifies what a value is measured in: a currency, a cryptocurrency,
// or a security together with its trade currency.
//
// Unit is a small comparable value type so it can be used as a map key and
// compared with == in per-booking loops without allocating.
type Unit struct {
	kind  UnitKind
	code  string // currency code, cryptocurrency code, or security symbol
	trade string // trade currency, securities only
}

// Currency returns the unit for a fiat currency code.
func Currency(code string) Unit { return Unit{kind: CurrencyUnit, code: code} }

// Cryptocurrency returns the unit for a cryptocurrency code.
func Cryptocurrency(code string) Unit { return Unit{kind: CryptocurrencyUnit, code: code} }

// Security returns the unit for a security symbol traded in the given currency.
func Security(symbol, tradeCurrency string) Unit {
	return Unit{kind: SecurityUnit, code: symbol, trade: tradeCurrency}
}

// ParseUnit parses a command-line unit spec. A bare code is a currency,
// "crypto:BTC" a cryptocurrency, and "security:AAPL:USD" a security with its
// trade currency.
func ParseUnit(s string) (Unit, error) {
	parts := strings.Split(s, ":")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return Currency(parts[0]), nil
	case len(parts) == 2 && parts[0] == "crypto":
		return Cryptocurrency(parts[1]), nil
	case len(parts) == 3 && parts[0] == "security":
		return Security(parts[1], parts[2]), nil
	default:
		return Unit{}, fmt.Errorf("invalid unit spec: %q", s)
	}
}

// Kind returns the unit's kind.
func (u Unit) Kind() UnitKind { return u.kind }

// Label returns the user-facing identifier of the unit: the currency or
// cryptocurrency code, or the security symbol.
func (u Unit) Label() string { return u.code }

// TradeCurrency returns the currency a security is traded in. It is empty for
// any other kind of unit.
func (u Unit) TradeCurrency() string { return u.trade }

// Equal reports whether two units are the same variant with the same
// discriminating fields.
func (u Unit) Equal(v Unit) bool { return u == v }

// IsZero reports whether the unit is unset. Only synthesized virtual accounts
// carry an unset unit.
func (u Unit) IsZero() bool { return u == Unit{} }

// String formats the unit for error messages and logs.
func (u Unit) String() string {
	switch u.kind {
	case SecurityUnit:
		return fmt.Sprintf("%s (%s)", u.code, u.trade)
	case CryptocurrencyUnit:
		return u.code + " (crypto)"
	default:
		return u.code
	}
}

// key returns a stable cache-key fragment for the unit.
func (u Unit) key() string {
	if u.kind == SecurityUnit {
		return u.kind.String() + ":" + u.code + ":" + u.trade
	}
	return u.kind.String() + ":" + u.code
}

// Validate checks the unit for structural integrity. A malformed unit is a
// data bug upstream, reported as an InvalidUnitError.
func (u Unit) Validate() error {
	switch u.kind {
	case CurrencyUnit:
		return ValidateCurrency(u.code)
	case CryptocurrencyUnit:
		if u.code == "" {
			return &InvalidUnitError{Reason: "cryptocurrency without a code"}
		}
	case SecurityUnit:
		if u.code == "" {
			return &InvalidUnitError{Reason: "security without a symbol"}
		}
		if err := ValidateCurrency(u.trade); err != nil {
			return &InvalidUnitError{Reason: fmt.Sprintf("security %q: invalid trade currency %q", u.code, u.trade)}
		}
	default:
		return &InvalidUnitError{Reason: fmt.Sprintf("unknown unit kind %d", u.kind)}
	}
	return nil
}

// ValidateCurrency checks that the code is a known ISO-4217 currency.
func ValidateCurrency(code string) error {
	if code == "" {
		return &InvalidUnitError{Reason: "empty currency code"}
	}
	if gomoney.GetCurrency(code) == nil {
		return &InvalidUnitError{Reason: fmt.Sprintf("unknown currency code %q", code)}
	}
	return nil
}

// junit is the json representation of a Unit.
type junit struct {
	Kind          string `json:"kind"`
	Code          string `json:"code"`
	TradeCurrency string `json:"tradeCurrency,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (u Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal(junit{Kind: u.kind.String(), Code: u.code, TradeCurrency: u.trade})
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Unit) UnmarshalJSON(bytes []byte) error {
	var j junit
	if err := json.Unmarshal(bytes, &j); err != nil {
		return err
	}
	kind, err := ParseUnitKind(j.Kind)
	if err != nil {
		return err
	}
	*u = Unit{kind: kind, code: j.Code, trade: j.TradeCurrency}
	return nil
}
