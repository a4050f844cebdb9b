package model

import (
	"context"
	"time"
)

// OTPStore persists one-time email verification codes, one per email.
type OTPStore interface {
	Upsert(ctx context.Context, otp OTP) error
	// Consume deletes a live code matching email and code. It returns
	// ErrNotFound when no such code exists.
	Consume(ctx context.Context, email, code string, now time.Time) error
}

// OTP describes a pending email verification code.
type OTP struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}
