package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists issued refresh tokens. A stored row is the only
// proof that a refresh token is still valid.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	Exists(ctx context.Context, token string, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, token string, userID uuid.UUID) error
	// Consume deletes the matching session and returns ErrNotFound when no
	// row matched, so a refresh token can be spent only once.
	Consume(ctx context.Context, token string, userID uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
}

type RefreshToken struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}
