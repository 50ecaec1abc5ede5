package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type BudgetSummary struct {
	Budget          *Budget         `json:"budget"`
	CurrentExpenses decimal.Decimal `json:"current_expenses"`
	PercentUsed     float64         `json:"percent_used"`
}
