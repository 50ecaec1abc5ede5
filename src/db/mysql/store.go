package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wealth-server/src/ledger"
	"wealth-server/src/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the MySQL implementation of ledger.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the ledger tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&sqlUser{}, &sqlAccount{}, &sqlTransaction{}, &sqlBudget{})
}

// WithinTx runs fn inside a gorm transaction; gorm rolls back when fn returns an error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}
	return err
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := &sqlUser{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Name:       user.Name,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return s.GetUserByExternalID(ctx, user.ExternalID)
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var row sqlUser
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toModel(), nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	var row sqlAccount
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", accountID, userID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	a := row.toModel()
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	var rows []sqlAccount
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toModel())
	}
	return accounts, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var row sqlTransaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionID, userID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	t := row.toModel()
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID, accountID string) ([]models.Transaction, error) {
	var rows []sqlTransaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("date DESC, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	txns := make([]models.Transaction, 0, len(rows))
	for i := range rows {
		txns = append(txns, rows[i].toModel())
	}
	return txns, nil
}

func (s *Store) SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.WithContext(ctx).Model(&sqlTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", string(models.TransactionTypeIncome)).
		Where("account_id = ?", accountID).
		Row().Scan(&sum)
	return sum, err
}

func (s *Store) SumAmounts(ctx context.Context, userID string, t models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.WithContext(ctx).Model(&sqlTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, string(t), from, to).
		Row().Scan(&sum)
	return sum, err
}

func (s *Store) GetBudget(ctx context.Context, userID string) (*models.Budget, error) {
	var row sqlBudget
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toModel(), nil
}

func (s *Store) UpsertBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	row := &sqlBudget{
		ID:        budget.ID,
		UserID:    budget.UserID,
		Amount:    budget.Amount,
		CreatedAt: budget.CreatedAt,
		UpdatedAt: budget.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return s.GetBudget(ctx, budget.UserID)
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	var row sqlAccount
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	a := row.toModel()
	return &a, nil
}

func (t *gormTx) LockTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var row sqlTransaction
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	txn := row.toModel()
	return &txn, nil
}

func (t *gormTx) InsertAccount(ctx context.Context, account *models.Account) error {
	return t.db.WithContext(ctx).Create(fromAccount(account)).Error
}

func (t *gormTx) ClearDefaultAccount(ctx context.Context, userID string) error {
	return t.db.WithContext(ctx).Model(&sqlAccount{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (t *gormTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	return t.db.WithContext(ctx).Create(fromTransaction(txn)).Error
}

// UpdateTransaction rewrites the mutable columns of a row already locked by LockTransaction.
func (t *gormTx) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	return t.db.WithContext(ctx).Model(&sqlTransaction{}).
		Where("id = ? AND user_id = ?", txn.ID, txn.UserID).
		Updates(map[string]interface{}{
			"account_id":          txn.AccountID,
			"type":                string(txn.Type),
			"amount":              txn.Amount,
			"description":         txn.Description,
			"category":            txn.Category,
			"date":                txn.Date,
			"is_recurring":        txn.IsRecurring,
			"recurring_interval":  string(txn.RecurringInterval),
			"next_recurring_date": txn.NextRecurringDate,
			"status":              string(txn.Status),
			"updated_at":          txn.UpdatedAt,
		}).Error
}

func (t *gormTx) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	db := t.db.WithContext(ctx)
	result := db.Model(&sqlAccount{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	// MySQL reports zero affected rows for a zero delta, so existence is checked on read.
	var balance decimal.Decimal
	if err := db.Model(&sqlAccount{}).Select("balance").Where("id = ?", accountID).Row().Scan(&balance); err != nil {
		return decimal.Zero, notFound(err)
	}
	return balance, nil
}

var _ ledger.Store = (*Store)(nil)
var _ ledger.Tx = (*gormTx)(nil)
