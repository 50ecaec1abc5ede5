package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the payload for both creating and editing a transaction.
// An edit replaces every field, including the account.
type TransactionRequest struct {
	AccountID         string            `json:"account_id"`
	Type              TransactionType   `json:"type"`
	Amount            decimal.Decimal   `json:"amount"`
	Description       string            `json:"description"`
	Category          string            `json:"category"`
	Date              time.Time         `json:"date"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval"`
}
