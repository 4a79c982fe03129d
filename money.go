package cashfolio

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value in a currency. The zero value is
// zero money with no currency, which acts as a neutral element for Add/Sub.
type Money struct {
	value decimal.Decimal
	cur   string
}

// NewMoney creates a money value from an exact decimal and a currency code.
func NewMoney(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// Amount returns the exact decimal amount.
func (m Money) Amount() decimal.Decimal { return m.value }

// Currency returns the currency code.
func (m Money) Currency() string { return m.cur }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Neg() Money       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money       { return Money{value: m.value.Abs(), cur: m.cur} }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// cur makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// String formats the value with the currency's symbol and fraction digits.
func (m Money) String() string {
	c := *gomoney.New(0, m.cur).Currency()
	return c.Formatter().Format(m.value.Shift(int32(c.Fraction)).Round(0).IntPart())
}

// SignedString formats the value with an explicit sign, and zero as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
