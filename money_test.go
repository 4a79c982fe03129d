package cashfolio

import "testing"

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoney(dec("10.50"), "USD")
	b := NewMoney(dec("4.50"), "USD")

	if got := a.Add(b); !got.Amount().Equal(dec("15")) || got.Currency() != "USD" {
		t.Errorf("Add = %s %s", got.Amount(), got.Currency())
	}
	if got := a.Sub(b); !got.Amount().Equal(dec("6")) {
		t.Errorf("Sub = %s", got.Amount())
	}

	// The zero value is a neutral element regardless of currency.
	var zero Money
	if got := zero.Add(a); got.Currency() != "USD" || !got.Amount().Equal(dec("10.50")) {
		t.Errorf("zero.Add = %s %s", got.Amount(), got.Currency())
	}
}

func TestMoney_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("adding USD and CHF did not panic")
		}
	}()
	NewMoney(dec("1"), "USD").Add(NewMoney(dec("1"), "CHF"))
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		value string
		want  string
	}{
		{"0", "-"},
		{"12.50", "+$12.50"},
		{"-12.50", "-$12.50"},
	}
	for _, tc := range testCases {
		if got := NewMoney(dec(tc.value), "USD").SignedString(); got != tc.want {
			t.Errorf("SignedString(%s) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
