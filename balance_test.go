package cashfolio

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func chfAccount(id string) Account {
	return Account{ID: id, Name: id, Type: Asset, GroupID: "assets", Unit: Currency("CHF"), IsActive: true}
}

func TestBalance_NativeUnit(t *testing.T) {
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, nil, nil, nil, nil)

	bookings := []Booking{
		{AccountID: "a", On: day("2025-01-02"), Value: dec("100"), Unit: Currency("CHF")},
		{AccountID: "a", On: day("2025-01-05"), Value: dec("-30"), Unit: Currency("CHF")},
		{AccountID: "a", On: day("2025-01-09"), Value: dec("-10"), Unit: Currency("CHF")},
	}
	got, err := system.Balance(context.Background(), bookings, Currency("CHF"))
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !got.Equal(dec("60")) {
		t.Errorf("Balance = %s, want 60", got)
	}
}

func TestLedgerRows_ConvertsPerBookingDate(t *testing.T) {
	fx := &fakeFX{tables: map[string]map[string]decimal.Decimal{
		"2025-01-02": {"CHF": dec("1.10")},
		"2025-01-05": {"CHF": dec("1.20")},
	}}
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, nil, fx, nil, nil)

	bookings := []Booking{
		{AccountID: "a", On: day("2025-01-02"), Value: dec("100"), Unit: Currency("CHF")},
		{AccountID: "a", On: day("2025-01-05"), Value: dec("-30"), Unit: Currency("CHF")},
	}
	rows, err := system.LedgerRows(context.Background(), bookings, Currency("USD"), decimal.Zero)
	if err != nil {
		t.Fatalf("LedgerRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].Value.Equal(dec("110")) {
		t.Errorf("rows[0].Value = %s, want 110 (at the booking's own rate)", rows[0].Value)
	}
	if !rows[1].Value.Equal(dec("-36")) {
		t.Errorf("rows[1].Value = %s, want -36", rows[1].Value)
	}
	if !rows[1].Balance.Equal(dec("74")) {
		t.Errorf("running balance = %s, want 74", rows[1].Balance)
	}
}

func TestLedgerRows_Opening(t *testing.T) {
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, nil, nil, nil, nil)

	bookings := []Booking{
		{AccountID: "a", On: day("2025-01-02"), Value: dec("10"), Unit: Currency("USD")},
	}
	rows, err := system.LedgerRows(context.Background(), bookings, Currency("USD"), dec("5"))
	if err != nil {
		t.Fatalf("LedgerRows: %v", err)
	}
	if !rows[0].Balance.Equal(dec("15")) {
		t.Errorf("balance = %s, want opening 5 + 10", rows[0].Balance)
	}
}

func TestBalanceAsOf_CachesNativeSeries(t *testing.T) {
	rows := &fakeRows{bookings: map[string][]Booking{
		"a": {
			{AccountID: "a", On: day("2025-01-02"), Value: dec("100"), Unit: Currency("CHF")},
			{AccountID: "a", On: day("2025-01-05"), Value: dec("-30"), Unit: Currency("CHF")},
		},
	}}
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, rows, nil, nil, nil)
	ctx := context.Background()
	account := chfAccount("a")

	got, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day("2025-01-10"))
	if err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	if !got.Equal(dec("70")) {
		t.Errorf("BalanceAsOf = %s, want 70", got)
	}
	if rows.loads != 1 {
		t.Fatalf("rows loaded %d times, want 1", rows.loads)
	}

	// A repeat query is served from the cached series.
	if _, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day("2025-01-10")); err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	if rows.loads != 1 {
		t.Errorf("rows loaded %d times after repeat query, want 1", rows.loads)
	}
}

func TestBalanceAsOf_OtherUnitConvertsCachedNative(t *testing.T) {
	fx := &fakeFX{tables: map[string]map[string]decimal.Decimal{
		"2025-01-10": {"CHF": dec("1.10")},
	}}
	rows := &fakeRows{bookings: map[string][]Booking{
		"a": {{AccountID: "a", On: day("2025-01-02"), Value: dec("100"), Unit: Currency("CHF")}},
	}}
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, rows, fx, nil, nil)
	ctx := context.Background()
	account := chfAccount("a")

	if _, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day("2025-01-10")); err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	got, err := system.BalanceAsOf(ctx, account, Currency("USD"), day("2025-01-10"))
	if err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	if !got.Equal(dec("110")) {
		t.Errorf("BalanceAsOf(USD) = %s, want 110", got)
	}
	if rows.loads != 1 {
		t.Errorf("rows loaded %d times, want 1: the USD query converts the cached native balance", rows.loads)
	}
}

func TestInvalidateBalances(t *testing.T) {
	rows := &fakeRows{bookings: map[string][]Booking{
		"a": {{AccountID: "a", On: day("2025-01-02"), Value: dec("100"), Unit: Currency("CHF")}},
	}}
	system, _ := newTestSystem(t, AccountBook{ID: "book"}, rows, nil, nil, nil)
	ctx := context.Background()
	account := chfAccount("a")

	for _, d := range []string{"2025-01-03", "2025-01-10"} {
		if _, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day(d)); err != nil {
			t.Fatalf("BalanceAsOf(%s): %v", d, err)
		}
	}
	if rows.loads != 2 {
		t.Fatalf("rows loaded %d times, want 2", rows.loads)
	}

	// A new booking on the 5th invalidates the 10th but not the 3rd.
	rows.bookings["a"] = append(rows.bookings["a"],
		Booking{AccountID: "a", On: day("2025-01-05"), Value: dec("-30"), Unit: Currency("CHF")})
	if err := system.InvalidateBalances(ctx, "a", day("2025-01-05")); err != nil {
		t.Fatalf("InvalidateBalances: %v", err)
	}

	if _, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day("2025-01-03")); err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	if rows.loads != 2 {
		t.Errorf("balance before the invalidation date was evicted, loads = %d", rows.loads)
	}

	got, err := system.BalanceAsOf(ctx, account, Currency("CHF"), day("2025-01-10"))
	if err != nil {
		t.Fatalf("BalanceAsOf: %v", err)
	}
	if !got.Equal(dec("70")) {
		t.Errorf("BalanceAsOf after invalidation = %s, want the recomputed 70", got)
	}
	if rows.loads != 3 {
		t.Errorf("rows loaded %d times, want 3", rows.loads)
	}
}
