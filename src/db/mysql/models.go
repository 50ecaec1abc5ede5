package mysql

import (
	"time"

	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

type sqlUser struct {
	ID         string `gorm:"primaryKey;size:36"`
	ExternalID string `gorm:"size:191;uniqueIndex"`
	Email      string `gorm:"size:255"`
	Name       string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (*sqlUser) TableName() string {
	return "users"
}

type sqlAccount struct {
	ID        string          `gorm:"primaryKey;size:36"`
	UserID    string          `gorm:"size:36;index"`
	Name      string          `gorm:"size:64"`
	Type      string          `gorm:"size:16"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

type sqlTransaction struct {
	ID                string          `gorm:"primaryKey;size:36"`
	UserID            string          `gorm:"size:36;index:idx_transactions_user_date"`
	AccountID         string          `gorm:"size:36;index"`
	Type              string          `gorm:"size:16"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description       string          `gorm:"size:255"`
	Category          string          `gorm:"size:64"`
	Date              time.Time       `gorm:"index:idx_transactions_user_date"`
	IsRecurring       bool
	RecurringInterval string `gorm:"size:16"`
	NextRecurringDate *time.Time
	Status            string `gorm:"size:16"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

type sqlBudget struct {
	ID        string          `gorm:"primaryKey;size:36"`
	UserID    string          `gorm:"size:36;uniqueIndex"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*sqlBudget) TableName() string {
	return "budgets"
}

func (u *sqlUser) toModel() *models.User {
	return &models.User{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (a *sqlAccount) toModel() models.Account {
	return models.Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Type:      models.AccountType(a.Type),
		Balance:   a.Balance,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func fromAccount(a *models.Account) *sqlAccount {
	return &sqlAccount{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   a.Balance,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (t *sqlTransaction) toModel() models.Transaction {
	return models.Transaction{
		ID:                t.ID,
		UserID:            t.UserID,
		AccountID:         t.AccountID,
		Type:              models.TransactionType(t.Type),
		Amount:            t.Amount,
		Description:       t.Description,
		Category:          t.Category,
		Date:              t.Date,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: models.RecurringInterval(t.RecurringInterval),
		NextRecurringDate: t.NextRecurringDate,
		Status:            models.TransactionStatus(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func fromTransaction(t *models.Transaction) *sqlTransaction {
	return &sqlTransaction{
		ID:                t.ID,
		UserID:            t.UserID,
		AccountID:         t.AccountID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		Description:       t.Description,
		Category:          t.Category,
		Date:              t.Date,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: string(t.RecurringInterval),
		NextRecurringDate: t.NextRecurringDate,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (b *sqlBudget) toModel() *models.Budget {
	return &models.Budget{
		ID:        b.ID,
		UserID:    b.UserID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
