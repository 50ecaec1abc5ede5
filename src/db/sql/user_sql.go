package db

import (
	"context"
	"fmt"

	"wealth-server/src/models"
)

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, external_id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at
		RETURNING id, external_id, email, name, created_at, updated_at
	`
	var u models.User
	err := s.pool.QueryRow(ctx, query, user.ID, user.ExternalID, user.Email, user.Name, user.CreatedAt, user.UpdatedAt).
		Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, external_id, email, name, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`
	var u models.User
	err := s.pool.QueryRow(ctx, query, externalID).
		Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, noRows(err)
	}
	return &u, nil
}
