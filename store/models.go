package store

import (
	"fmt"
	"time"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
)

// Rows store dates as ISO-8601 strings and decimals as strings: both sort and
// compare correctly in SQLite without losing exactness.

type accountBookRow struct {
	ID                      string `gorm:"primaryKey;size:36"`
	ReferenceCurrency       string `gorm:"size:3;not null"`
	SecurityGainLossGroupID string `gorm:"size:36"`
	CryptoGainLossGroupID   string `gorm:"size:36"`
	FXGainLossGroupID       string `gorm:"size:36"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type accountGroupRow struct {
	ID            string `gorm:"primaryKey;size:36"`
	AccountBookID string `gorm:"index;not null;size:36"`
	Name          string `gorm:"size:255;not null"`
	Type          string `gorm:"size:16;not null"`
	ParentGroupID string `gorm:"index;size:36"`
	SortOrder     *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type accountRow struct {
	ID                string `gorm:"primaryKey;size:36"`
	AccountBookID     string `gorm:"index;not null;size:36"`
	Name              string `gorm:"size:255;not null"`
	Type              string `gorm:"size:16;not null"`
	GroupID           string `gorm:"index;not null;size:36"`
	UnitKind          string `gorm:"size:16;not null"`
	UnitCode          string `gorm:"size:32;not null"`
	UnitTradeCurrency string `gorm:"size:3"`
	IsActive          bool   `gorm:"not null;default:true"`
	SortOrder         *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type transactionRow struct {
	ID            string `gorm:"primaryKey;size:36"`
	AccountBookID string `gorm:"index;not null;size:36"`
	Description   string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type bookingRow struct {
	ID                string `gorm:"primaryKey;size:36"`
	TransactionID     string `gorm:"index;not null;size:36"`
	AccountID         string `gorm:"index;not null;size:36"`
	On                string `gorm:"index;not null;size:10"`
	Value             string `gorm:"not null"`
	UnitKind          string `gorm:"size:16;not null"`
	UnitCode          string `gorm:"size:32;not null"`
	UnitTradeCurrency string `gorm:"size:3"`
	Description       string `gorm:"size:255"`
	CreatedAt         time.Time
}

func rowUnit(kind, code, trade string) (cashfolio.Unit, error) {
	k, err := cashfolio.ParseUnitKind(kind)
	if err != nil {
		return cashfolio.Unit{}, err
	}
	switch k {
	case cashfolio.CurrencyUnit:
		return cashfolio.Currency(code), nil
	case cashfolio.CryptocurrencyUnit:
		return cashfolio.Cryptocurrency(code), nil
	default:
		return cashfolio.Security(code, trade), nil
	}
}

func unitColumns(u cashfolio.Unit) (kind, code, trade string) {
	return u.Kind().String(), u.Label(), u.TradeCurrency()
}

func (r accountRow) toAccount() (cashfolio.Account, error) {
	t, err := cashfolio.ParseAccountType(r.Type)
	if err != nil {
		return cashfolio.Account{}, fmt.Errorf("account %s: %w", r.ID, err)
	}
	u, err := rowUnit(r.UnitKind, r.UnitCode, r.UnitTradeCurrency)
	if err != nil {
		return cashfolio.Account{}, fmt.Errorf("account %s: %w", r.ID, err)
	}
	return cashfolio.Account{
		ID:        r.ID,
		Name:      r.Name,
		Type:      t,
		GroupID:   r.GroupID,
		Unit:      u,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}, nil
}

func (r accountGroupRow) toGroup() (cashfolio.AccountGroup, error) {
	t, err := cashfolio.ParseAccountType(r.Type)
	if err != nil {
		return cashfolio.AccountGroup{}, fmt.Errorf("account group %s: %w", r.ID, err)
	}
	return cashfolio.AccountGroup{
		ID:            r.ID,
		Name:          r.Name,
		Type:          t,
		ParentGroupID: r.ParentGroupID,
		SortOrder:     r.SortOrder,
	}, nil
}

func (r bookingRow) toBooking() (cashfolio.Booking, error) {
	on, err := date.Parse(r.On)
	if err != nil {
		return cashfolio.Booking{}, fmt.Errorf("booking %s: %w", r.ID, err)
	}
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return cashfolio.Booking{}, fmt.Errorf("booking %s: %w", r.ID, err)
	}
	u, err := rowUnit(r.UnitKind, r.UnitCode, r.UnitTradeCurrency)
	if err != nil {
		return cashfolio.Booking{}, fmt.Errorf("booking %s: %w", r.ID, err)
	}
	return cashfolio.Booking{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		AccountID:     r.AccountID,
		On:            on,
		Value:         value,
		Unit:          u,
		Description:   r.Description,
	}, nil
}
