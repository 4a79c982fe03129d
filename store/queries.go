package store

import (
	"context"
	"errors"
	"fmt"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookSource scopes queries to one account book and implements the engine's
// cashfolio.RowSource contract.
type BookSource struct {
	db     *gorm.DB
	bookID string
}

// Book returns a row source scoped to one account book.
func (s *Store) Book(bookID string) *BookSource {
	return &BookSource{db: s.db, bookID: bookID}
}

var _ cashfolio.RowSource = (*BookSource)(nil)

// AccountBook loads the book row itself.
func (b *BookSource) AccountBook(ctx context.Context) (cashfolio.AccountBook, error) {
	var row accountBookRow
	if err := b.db.WithContext(ctx).First(&row, "id = ?", b.bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cashfolio.AccountBook{}, fmt.Errorf("account book %s does not exist", b.bookID)
		}
		return cashfolio.AccountBook{}, err
	}
	return cashfolio.AccountBook{
		ID:                      row.ID,
		ReferenceCurrency:       row.ReferenceCurrency,
		SecurityGainLossGroupID: row.SecurityGainLossGroupID,
		CryptoGainLossGroupID:   row.CryptoGainLossGroupID,
		FXGainLossGroupID:       row.FXGainLossGroupID,
	}, nil
}

// Accounts returns the book's accounts, explicit sort order first, then by name.
func (b *BookSource) Accounts(ctx context.Context) ([]cashfolio.Account, error) {
	var rows []accountRow
	err := b.db.WithContext(ctx).
		Where("account_book_id = ?", b.bookID).
		Order("sort_order IS NULL, sort_order, name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	accounts := make([]cashfolio.Account, 0, len(rows))
	for _, row := range rows {
		a, err := row.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// AccountGroups returns the book's groups, explicit sort order first, then by name.
func (b *BookSource) AccountGroups(ctx context.Context) ([]cashfolio.AccountGroup, error) {
	var rows []accountGroupRow
	err := b.db.WithContext(ctx).
		Where("account_book_id = ?", b.bookID).
		Order("sort_order IS NULL, sort_order, name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	groups := make([]cashfolio.AccountGroup, 0, len(rows))
	for _, row := range rows {
		g, err := row.toGroup()
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// BookingsForAccount returns the account's bookings up to and including
// 'until', ascending by date.
func (b *BookSource) BookingsForAccount(ctx context.Context, accountID string, until date.Date) ([]cashfolio.Booking, error) {
	var rows []bookingRow
	err := b.db.WithContext(ctx).
		Where("account_id = ? AND `on` <= ?", accountID, until.String()).
		Order("`on`, created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toBookings(rows)
}

// BookingsInRange returns the account's bookings within the range, ascending
// by date.
func (b *BookSource) BookingsInRange(ctx context.Context, accountID string, rng date.Range) ([]cashfolio.Booking, error) {
	var rows []bookingRow
	err := b.db.WithContext(ctx).
		Where("account_id = ? AND `on` BETWEEN ? AND ?", accountID, rng.From.String(), rng.To.String()).
		Order("`on`, created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toBookings(rows)
}

// TransactionsInPeriod returns every transaction of the book whose latest
// booking date falls within the range, bookings included.
func (b *BookSource) TransactionsInPeriod(ctx context.Context, rng date.Range) ([]cashfolio.Transaction, error) {
	var ids []string
	err := b.db.WithContext(ctx).
		Model(&bookingRow{}).
		Select("booking_rows.transaction_id").
		Joins("JOIN transaction_rows ON transaction_rows.id = booking_rows.transaction_id").
		Where("transaction_rows.account_book_id = ?", b.bookID).
		Group("booking_rows.transaction_id").
		Having("MAX(booking_rows.`on`) BETWEEN ? AND ?", rng.From.String(), rng.To.String()).
		Pluck("booking_rows.transaction_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var txRows []transactionRow
	if err := b.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&txRows).Error; err != nil {
		return nil, err
	}
	var bookingRows []bookingRow
	err = b.db.WithContext(ctx).
		Where("transaction_id IN ?", ids).
		Order("`on`, created_at, id").
		Find(&bookingRows).Error
	if err != nil {
		return nil, err
	}

	byTx := make(map[string][]cashfolio.Booking, len(ids))
	for _, row := range bookingRows {
		booking, err := row.toBooking()
		if err != nil {
			return nil, err
		}
		byTx[row.TransactionID] = append(byTx[row.TransactionID], booking)
	}

	transactions := make([]cashfolio.Transaction, 0, len(txRows))
	for _, row := range txRows {
		transactions = append(transactions, cashfolio.Transaction{
			ID:          row.ID,
			Description: row.Description,
			Bookings:    byTx[row.ID],
		})
	}
	return transactions, nil
}

// SaveBook creates or updates an account book row.
func (s *Store) SaveBook(ctx context.Context, book cashfolio.AccountBook) error {
	if err := cashfolio.ValidateCurrency(book.ReferenceCurrency); err != nil {
		return err
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	row := accountBookRow{
		ID:                      book.ID,
		ReferenceCurrency:       book.ReferenceCurrency,
		SecurityGainLossGroupID: book.SecurityGainLossGroupID,
		CryptoGainLossGroupID:   book.CryptoGainLossGroupID,
		FXGainLossGroupID:       book.FXGainLossGroupID,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

// CreateGroup inserts an account group into the book.
func (b *BookSource) CreateGroup(ctx context.Context, g cashfolio.AccountGroup) (cashfolio.AccountGroup, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	row := accountGroupRow{
		ID:            g.ID,
		AccountBookID: b.bookID,
		Name:          g.Name,
		Type:          g.Type.String(),
		ParentGroupID: g.ParentGroupID,
		SortOrder:     g.SortOrder,
	}
	return g, b.db.WithContext(ctx).Create(&row).Error
}

// CreateAccount inserts an account into the book.
func (b *BookSource) CreateAccount(ctx context.Context, a cashfolio.Account) (cashfolio.Account, error) {
	if err := a.Unit.Validate(); err != nil {
		return cashfolio.Account{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	kind, code, trade := unitColumns(a.Unit)
	row := accountRow{
		ID:                a.ID,
		AccountBookID:     b.bookID,
		Name:              a.Name,
		Type:              a.Type.String(),
		GroupID:           a.GroupID,
		UnitKind:          kind,
		UnitCode:          code,
		UnitTradeCurrency: trade,
		IsActive:          a.IsActive,
		SortOrder:         a.SortOrder,
	}
	return a, b.db.WithContext(ctx).Create(&row).Error
}

// CreateTransaction validates and inserts a transaction with its bookings.
// Double-entry validation happens here, at the edge: a single-unit transaction
// must sum to exactly zero. Cross-unit transactions are permitted; their
// residual surfaces later as transaction gain/loss.
func (b *BookSource) CreateTransaction(ctx context.Context, tx cashfolio.Transaction) (cashfolio.Transaction, error) {
	if err := validateTransaction(tx); err != nil {
		return cashfolio.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	err := b.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		row := transactionRow{ID: tx.ID, AccountBookID: b.bookID, Description: tx.Description}
		if err := dbtx.Create(&row).Error; err != nil {
			return err
		}
		for i := range tx.Bookings {
			booking := &tx.Bookings[i]
			if booking.ID == "" {
				booking.ID = uuid.NewString()
			}
			booking.TransactionID = tx.ID
			kind, code, trade := unitColumns(booking.Unit)
			if err := dbtx.Create(&bookingRow{
				ID:                booking.ID,
				TransactionID:     tx.ID,
				AccountID:         booking.AccountID,
				On:                booking.On.String(),
				Value:             booking.Value.String(),
				UnitKind:          kind,
				UnitCode:          code,
				UnitTradeCurrency: trade,
				Description:       booking.Description,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return cashfolio.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes a transaction and returns its former bookings so
// the caller can invalidate the affected balance caches.
func (b *BookSource) DeleteTransaction(ctx context.Context, id string) ([]cashfolio.Booking, error) {
	var rows []bookingRow
	if err := b.db.WithContext(ctx).Where("transaction_id = ?", id).Find(&rows).Error; err != nil {
		return nil, err
	}
	err := b.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Where("transaction_id = ?", id).Delete(&bookingRow{}).Error; err != nil {
			return err
		}
		return dbtx.Where("id = ? AND account_book_id = ?", id, b.bookID).Delete(&transactionRow{}).Error
	})
	if err != nil {
		return nil, err
	}
	return toBookings(rows)
}

func validateTransaction(tx cashfolio.Transaction) error {
	if len(tx.Bookings) < 2 {
		return fmt.Errorf("a transaction needs at least 2 bookings, got %d", len(tx.Bookings))
	}
	sameUnit := true
	for _, b := range tx.Bookings {
		if err := b.Unit.Validate(); err != nil {
			return err
		}
		if b.Unit != tx.Bookings[0].Unit {
			sameUnit = false
		}
	}
	if sameUnit {
		sum := tx.Bookings[0].Value
		for _, b := range tx.Bookings[1:] {
			sum = sum.Add(b.Value)
		}
		if !sum.IsZero() {
			return fmt.Errorf("single-unit transaction does not balance: sum is %s %s", sum, tx.Bookings[0].Unit)
		}
	}
	return nil
}

func toBookings(rows []bookingRow) ([]cashfolio.Booking, error) {
	bookings := make([]cashfolio.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := row.toBooking()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
