package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db DBTX
}

func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, token, user_id, issued_at, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.Token, token.UserID, token.IssuedAt, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Exists(ctx context.Context, token string, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, token, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return exists, nil
}

// Delete removes the session matching token and userID. Deleting a missing
// session is not an error.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string, userID uuid.UUID) error {
	const query = `DELETE FROM refresh_tokens WHERE token = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Consume(ctx context.Context, token string, userID uuid.UUID) error {
	const query = `DELETE FROM refresh_tokens WHERE token = $1 AND user_id = $2 RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, token, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens by user: %w", err)
	}
	return nil
}
