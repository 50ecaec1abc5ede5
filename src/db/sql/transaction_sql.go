package db

import (
	"context"
	"time"

	"wealth-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, account_id, type, amount, description, category, date,
	is_recurring, recurring_interval, next_recurring_date, status, created_at, updated_at`

func scanTransaction(row pgx.Row, t *models.Transaction) error {
	return row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.Category,
		&t.Date,
		&t.IsRecurring,
		&t.RecurringInterval,
		&t.NextRecurringDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func (s *Store) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	var t models.Transaction
	if err := scanTransaction(s.pool.QueryRow(ctx, query, transactionID, userID), &t); err != nil {
		return nil, noRows(err)
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND account_id = $2
		ORDER BY date DESC, id
	`
	rows, err := s.pool.Query(ctx, query, userID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Store) SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1
	`
	var sum decimal.Decimal
	err := s.pool.QueryRow(ctx, query, accountID).Scan(&sum)
	return sum, err
}

func (s *Store) SumAmounts(ctx context.Context, userID string, typ models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4
	`
	var sum decimal.Decimal
	err := s.pool.QueryRow(ctx, query, userID, typ, from, to).Scan(&sum)
	return sum, err
}

func (t *pgTx) LockTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`
	var txn models.Transaction
	if err := scanTransaction(t.tx.QueryRow(ctx, query, transactionID, userID), &txn); err != nil {
		return nil, noRows(err)
	}
	return &txn, nil
}

func (t *pgTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := t.tx.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.Category,
		txn.Date,
		txn.IsRecurring,
		txn.RecurringInterval,
		txn.NextRecurringDate,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	return err
}

func (t *pgTx) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1, type = $2, amount = $3, description = $4, category = $5, date = $6,
			is_recurring = $7, recurring_interval = $8, next_recurring_date = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12
	`
	cmd, err := t.tx.Exec(ctx, query,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.Category,
		txn.Date,
		txn.IsRecurring,
		txn.RecurringInterval,
		txn.NextRecurringDate,
		txn.UpdatedAt,
		txn.ID,
		txn.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return noRows(pgx.ErrNoRows)
	}
	return nil
}
