package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeCurrent || t == AccountTypeSavings
}

// Account balance is only changed by the ledger when transactions are written.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AccountRequest struct {
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	IsDefault bool        `json:"is_default"`
}

// BalanceCheck compares the stored balance with one rebuilt from the account's transactions.
type BalanceCheck struct {
	AccountID     string          `json:"account_id"`
	Stored        decimal.Decimal `json:"stored"`
	Reconstructed decimal.Decimal `json:"reconstructed"`
	Consistent    bool            `json:"consistent"`
}
