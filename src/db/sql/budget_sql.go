package db

import (
	"context"

	"wealth-server/src/models"
)

func (s *Store) GetBudget(ctx context.Context, userID string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, amount, created_at, updated_at
		FROM budgets WHERE user_id = $1
	`
	var b models.Budget
	err := s.pool.QueryRow(ctx, query, userID).
		Scan(&b.ID, &b.UserID, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, noRows(err)
	}
	return &b, nil
}

func (s *Store) UpsertBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, amount, created_at, updated_at
	`
	var b models.Budget
	err := s.pool.QueryRow(ctx, query, budget.ID, budget.UserID, budget.Amount, budget.CreatedAt, budget.UpdatedAt).
		Scan(&b.ID, &b.UserID, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
