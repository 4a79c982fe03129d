package store

import (
	"context"
	"path/filepath"
	"testing"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) date.Date { return date.MustParse(s) }

// openTestBook creates a store in a temp dir and seeds one book with an asset
// group and two cash accounts.
func openTestBook(t *testing.T) (*BookSource, []cashfolio.Account) {
	t.Helper()
	ctx := context.Background()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.SaveBook(ctx, cashfolio.AccountBook{ID: "book", ReferenceCurrency: "USD"}); err != nil {
		t.Fatalf("SaveBook: %v", err)
	}
	b := s.Book("book")

	group, err := b.CreateGroup(ctx, cashfolio.AccountGroup{Name: "Assets", Type: cashfolio.Asset})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	var accounts []cashfolio.Account
	for _, spec := range []struct {
		name string
		unit cashfolio.Unit
	}{
		{"USD wallet", cashfolio.Currency("USD")},
		{"CHF wallet", cashfolio.Currency("CHF")},
	} {
		a, err := b.CreateAccount(ctx, cashfolio.Account{
			Name:     spec.name,
			Type:     cashfolio.Asset,
			GroupID:  group.ID,
			Unit:     spec.unit,
			IsActive: true,
		})
		if err != nil {
			t.Fatalf("CreateAccount(%s): %v", spec.name, err)
		}
		accounts = append(accounts, a)
	}
	return b, accounts
}

func TestAccountBook_RoundTrip(t *testing.T) {
	b, _ := openTestBook(t)

	book, err := b.AccountBook(context.Background())
	if err != nil {
		t.Fatalf("AccountBook: %v", err)
	}
	if book.ID != "book" || book.ReferenceCurrency != "USD" {
		t.Errorf("AccountBook = %+v", book)
	}
}

func TestAccountBook_NotFound(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Book("nope").AccountBook(context.Background()); err == nil {
		t.Fatal("AccountBook succeeded for a missing book")
	}
}

func TestAccounts_RoundTrip(t *testing.T) {
	b, _ := openTestBook(t)
	ctx := context.Background()

	accounts, err := b.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	// Without explicit sort orders, accounts come back by name.
	if accounts[0].Name != "CHF wallet" || accounts[0].Unit != cashfolio.Currency("CHF") {
		t.Errorf("accounts[0] = %+v", accounts[0])
	}

	groups, err := b.AccountGroups(ctx)
	if err != nil {
		t.Fatalf("AccountGroups: %v", err)
	}
	if len(groups) != 1 || groups[0].Type != cashfolio.Asset {
		t.Errorf("groups = %+v", groups)
	}
}

func TestCreateAccount_SecurityUnit(t *testing.T) {
	b, _ := openTestBook(t)
	ctx := context.Background()

	groups, err := b.AccountGroups(ctx)
	if err != nil {
		t.Fatalf("AccountGroups: %v", err)
	}
	if _, err := b.CreateAccount(ctx, cashfolio.Account{
		Name:     "AAPL position",
		Type:     cashfolio.Asset,
		GroupID:  groups[0].ID,
		Unit:     cashfolio.Security("AAPL", "USD"),
		IsActive: true,
	}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	accounts, err := b.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	var found bool
	for _, a := range accounts {
		if a.Name == "AAPL position" {
			found = true
			if a.Unit != cashfolio.Security("AAPL", "USD") {
				t.Errorf("unit = %v, want the security with its trade currency", a.Unit)
			}
		}
	}
	if !found {
		t.Errorf("security account not returned")
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	b, accounts := openTestBook(t)
	ctx := context.Background()
	usd, chf := accounts[0], accounts[1]

	testCases := []struct {
		name     string
		bookings []cashfolio.Booking
		wantErr  bool
	}{
		{
			name: "balanced single-unit",
			bookings: []cashfolio.Booking{
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("-100"), Unit: cashfolio.Currency("USD")},
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("100"), Unit: cashfolio.Currency("USD")},
			},
		},
		{
			name: "unbalanced single-unit",
			bookings: []cashfolio.Booking{
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("-100"), Unit: cashfolio.Currency("USD")},
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("90"), Unit: cashfolio.Currency("USD")},
			},
			wantErr: true,
		},
		{
			name: "unbalanced cross-unit",
			bookings: []cashfolio.Booking{
				{AccountID: chf.ID, On: day("2025-01-02"), Value: dec("-1070"), Unit: cashfolio.Currency("CHF")},
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("1000"), Unit: cashfolio.Currency("USD")},
			},
		},
		{
			name: "single booking",
			bookings: []cashfolio.Booking{
				{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("100"), Unit: cashfolio.Currency("USD")},
			},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.CreateTransaction(ctx, cashfolio.Transaction{Bookings: tc.bookings})
			if tc.wantErr && err == nil {
				t.Errorf("CreateTransaction succeeded, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("CreateTransaction: %v", err)
			}
		})
	}
}

func TestBookings_Queries(t *testing.T) {
	b, accounts := openTestBook(t)
	ctx := context.Background()
	usd := accounts[0]

	for _, booking := range []struct {
		on    string
		value string
	}{
		{"2025-01-02", "100"},
		{"2025-01-05", "-30"},
		{"2025-02-01", "7"},
	} {
		_, err := b.CreateTransaction(ctx, cashfolio.Transaction{Bookings: []cashfolio.Booking{
			{AccountID: usd.ID, On: day(booking.on), Value: dec(booking.value), Unit: cashfolio.Currency("USD")},
			{AccountID: usd.ID, On: day(booking.on), Value: dec(booking.value).Neg(), Unit: cashfolio.Currency("USD")},
		}})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	until, err := b.BookingsForAccount(ctx, usd.ID, day("2025-01-31"))
	if err != nil {
		t.Fatalf("BookingsForAccount: %v", err)
	}
	if len(until) != 4 {
		t.Errorf("got %d bookings until 2025-01-31, want 4", len(until))
	}
	for i := 1; i < len(until); i++ {
		if until[i].On.Before(until[i-1].On) {
			t.Fatalf("bookings out of date order: %v", until)
		}
	}

	ranged, err := b.BookingsInRange(ctx, usd.ID, date.NewRange(day("2025-01-03"), day("2025-01-31")))
	if err != nil {
		t.Fatalf("BookingsInRange: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("got %d bookings in range, want 2", len(ranged))
	}
}

func TestTransactionsInPeriod_LatestBookingDecides(t *testing.T) {
	b, accounts := openTestBook(t)
	ctx := context.Background()
	usd := accounts[0]

	// Spans January and February; the latest booking puts it in February.
	spanning, err := b.CreateTransaction(ctx, cashfolio.Transaction{Bookings: []cashfolio.Booking{
		{AccountID: usd.ID, On: day("2025-01-30"), Value: dec("-50"), Unit: cashfolio.Currency("USD")},
		{AccountID: usd.ID, On: day("2025-02-02"), Value: dec("50"), Unit: cashfolio.Currency("USD")},
	}})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	january, err := b.TransactionsInPeriod(ctx, date.NewRange(day("2025-01-01"), day("2025-01-31")))
	if err != nil {
		t.Fatalf("TransactionsInPeriod: %v", err)
	}
	if len(january) != 0 {
		t.Errorf("spanning transaction attributed to January")
	}

	february, err := b.TransactionsInPeriod(ctx, date.NewRange(day("2025-02-01"), day("2025-02-28")))
	if err != nil {
		t.Fatalf("TransactionsInPeriod: %v", err)
	}
	if len(february) != 1 || february[0].ID != spanning.ID {
		t.Fatalf("February = %+v, want the spanning transaction", february)
	}
	if len(february[0].Bookings) != 2 {
		t.Errorf("transaction loaded with %d bookings, want both", len(february[0].Bookings))
	}
}

func TestDeleteTransaction(t *testing.T) {
	b, accounts := openTestBook(t)
	ctx := context.Background()
	usd := accounts[0]

	tx, err := b.CreateTransaction(ctx, cashfolio.Transaction{Bookings: []cashfolio.Booking{
		{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("-100"), Unit: cashfolio.Currency("USD")},
		{AccountID: usd.ID, On: day("2025-01-02"), Value: dec("100"), Unit: cashfolio.Currency("USD")},
	}})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	removed, err := b.DeleteTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("DeleteTransaction returned %d bookings, want 2", len(removed))
	}

	left, err := b.BookingsForAccount(ctx, usd.ID, day("2025-12-31"))
	if err != nil {
		t.Fatalf("BookingsForAccount: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("%d bookings survived the delete", len(left))
	}
}
