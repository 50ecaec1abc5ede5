package ledger

import (
	"context"
	"time"

	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

// Store is the relational store behind the ledger. Lookups scoped by userID must return
// ErrNotFound when the row is absent or owned by someone else.
type Store interface {
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)

	GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)

	GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID, accountID string) ([]models.Transaction, error)
	// SumSignedAmounts returns sum(INCOME amounts) - sum(EXPENSE amounts) for the account.
	SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, error)
	// SumAmounts totals the owner's transactions of one type dated in [from, to).
	SumAmounts(ctx context.Context, userID string, t models.TransactionType, from, to time.Time) (decimal.Decimal, error)

	GetBudget(ctx context.Context, userID string) (*models.Budget, error)
	UpsertBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)

	// WithinTx runs fn in one store transaction. Every write made through tx is committed
	// together when fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write side of an atomic unit.
type Tx interface {
	// LockAccount reads an owned account and holds it until the unit ends.
	LockAccount(ctx context.Context, userID, accountID string) (*models.Account, error)
	LockTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	InsertAccount(ctx context.Context, account *models.Account) error
	ClearDefaultAccount(ctx context.Context, userID string) error
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	// AdjustBalance increments the account balance by delta and returns the new balance.
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error)
}
