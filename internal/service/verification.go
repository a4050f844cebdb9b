package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

// Verification issues and checks email one-time codes.
type Verification struct {
	otpStore  model.OTPStore
	userStore model.UserStore
	notifier  model.Notifier
	logger    *logger.Logger
	ttl       time.Duration
	length    int
	now       func() time.Time
}

var _ OTPVerifier = (*Verification)(nil)

func NewVerification(
	otpStore model.OTPStore,
	userStore model.UserStore,
	notifier model.Notifier,
	logger *logger.Logger,
	ttl time.Duration,
	length int,
) *Verification {
	return &Verification{
		otpStore:  otpStore,
		userStore: userStore,
		notifier:  notifier,
		logger:    logger,
		ttl:       ttl,
		length:    length,
		now:       time.Now,
	}
}

// SendOTP stores a fresh code for email, replacing any pending one, and
// mails it.
func (v *Verification) SendOTP(ctx context.Context, email string) error {
	code, err := generateCode(v.length)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := model.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: v.now().Add(v.ttl),
	}
	if err := v.otpStore.Upsert(ctx, otp); err != nil {
		v.logger.Error("Verification service: failed to store otp",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to store otp: %w", err)
	}

	err = v.notifier.Send(ctx, model.Message{
		To:      email,
		Subject: "Your verification code",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in %s.", code, v.ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to send otp: %w", err)
	}

	v.logger.Info("Verification service: otp sent",
		"email", email)

	return nil
}

// EmailStatus reports whether email already belongs to a user.
func (v *Verification) EmailStatus(ctx context.Context, email string) (bool, error) {
	_, err := v.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get user by email: %w", err)
	}
	return true, nil
}

// Verify consumes a live code for email. Each code works once.
func (v *Verification) Verify(ctx context.Context, email, code string) error {
	return v.VerifyWith(ctx, v.otpStore, email, code)
}

// VerifyWith is Verify with the code consumed through otps.
func (v *Verification) VerifyWith(ctx context.Context, otps model.OTPStore, email, code string) error {
	err := otps.Consume(ctx, email, code, v.now())
	if errors.Is(err, model.ErrNotFound) {
		v.logger.Info("Verification service: no live otp",
			"email", email)
		return apierror.NewErrEmailNotVerified()
	}
	if err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}

func generateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
