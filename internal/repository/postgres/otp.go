package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/taskhub-server/internal/model"
)

var _ model.OTPStore = (*OTPRepository)(nil)

type OTPRepository struct {
	db DBTX
}

func NewOTPRepository(db DBTX) *OTPRepository {
	return &OTPRepository{db: db}
}

// Upsert replaces any pending code for the email.
func (r *OTPRepository) Upsert(ctx context.Context, otp model.OTP) error {
	const query = `
        INSERT INTO otps (email, code, expires_at) VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
    `

	if _, err := r.db.ExecContext(ctx, query, otp.Email, otp.Code, otp.ExpiresAt); err != nil {
		return fmt.Errorf("failed to upsert otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) Consume(ctx context.Context, email, code string, now time.Time) error {
	const query = `
        DELETE FROM otps WHERE email = $1 AND code = $2 AND expires_at > $3
        RETURNING email
    `

	var consumed string
	if err := r.db.QueryRowContext(ctx, query, email, code, now).Scan(&consumed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}
