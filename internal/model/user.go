package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	// UpdateCredential replaces the password digest and clears any pending
	// forgot-password token.
	UpdateCredential(ctx context.Context, id uuid.UUID, passwordDigest string) error
	SetForgotPasswordToken(ctx context.Context, id uuid.UUID, token string) error
}

// User represents a stored user with authentication material.
type User struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	PasswordDigest      string
	Description         string
	ForgotPasswordToken string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PasswordHasher turns plaintext passwords into storable digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(digest, plaintext string) (bool, error)
}

// SignUpParams is the input of a sign-up.
type SignUpParams struct {
	Name     string
	Email    string
	Password string
	OTPCode  string
}
