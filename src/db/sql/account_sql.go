package db

import (
	"context"

	"wealth-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, name, type, balance, is_default, created_at, updated_at`

func scanAccount(row pgx.Row, a *models.Account) error {
	return row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	var a models.Account
	if err := scanAccount(s.pool.QueryRow(ctx, query, accountID, userID), &a); err != nil {
		return nil, noRows(err)
	}
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (t *pgTx) LockAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`
	var a models.Account
	if err := scanAccount(t.tx.QueryRow(ctx, query, accountID, userID), &a); err != nil {
		return nil, noRows(err)
	}
	return &a, nil
}

func (t *pgTx) InsertAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, name, type, balance, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := t.tx.Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Name,
		account.Type,
		account.Balance,
		account.IsDefault,
		account.CreatedAt,
		account.UpdatedAt,
	)
	return err
}

func (t *pgTx) ClearDefaultAccount(ctx context.Context, userID string) error {
	query := `UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`
	_, err := t.tx.Exec(ctx, query, userID)
	return err
}

func (t *pgTx) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`
	var balance decimal.Decimal
	if err := t.tx.QueryRow(ctx, query, delta, accountID).Scan(&balance); err != nil {
		return decimal.Zero, noRows(err)
	}
	return balance, nil
}
