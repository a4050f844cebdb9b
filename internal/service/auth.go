package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

// OTPVerifier consumes a one-time code proving control of an email. The
// code is consumed through otps, which may be bound to a transaction.
type OTPVerifier interface {
	VerifyWith(ctx context.Context, otps model.OTPStore, email, code string) error
}

type Auth struct {
	userStore    model.UserStore
	transactor   model.Transactor
	otpVerifier  OTPVerifier
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	tokenService *TokenService
	notifier     model.Notifier
	logger       *logger.Logger

	revokeSessionsOnPasswordChange bool
}

func NewAuth(
	userStore model.UserStore,
	transactor model.Transactor,
	otpVerifier OTPVerifier,
	refreshTokenStore model.RefreshTokenStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	notifier model.Notifier,
	logger *logger.Logger,
	revokeSessionsOnPasswordChange bool,
) *Auth {
	return &Auth{
		userStore:                      userStore,
		transactor:                     transactor,
		otpVerifier:                    otpVerifier,
		hasher:                         hasher,
		tokenManager:                   tokenManager,
		tokenService:                   NewTokenService(tokenManager, refreshTokenStore, logger),
		notifier:                       notifier,
		logger:                         logger,
		revokeSessionsOnPasswordChange: revokeSessionsOnPasswordChange,
	}
}

// Tokens exposes the token service for the authentication middleware.
func (a *Auth) Tokens() *TokenService {
	return a.tokenService
}

func (a *Auth) SignUp(ctx context.Context, params model.SignUpParams) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	existingUser, err := a.userStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.TokenPair{}, apierror.NewErrEmailIsTaken(params.Email)
	}

	digest, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// A failed insert rolls back the code consumption.
	var user model.User
	err = a.transactor.WithinTx(ctx, func(ctx context.Context, stores model.TxStores) error {
		if err := a.otpVerifier.VerifyWith(ctx, stores.OTPs, params.Email, params.OTPCode); err != nil {
			return err
		}

		now := time.Now().UTC()
		created, err := stores.Users.Create(ctx, model.User{
			ID:             uuid.New(),
			Name:           params.Name,
			Email:          params.Email,
			PasswordDigest: digest,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if errors.Is(err, model.ErrConflict) {
			return apierror.NewErrEmailIsTaken(params.Email)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		if _, ok := apierror.As(err); !ok {
			a.logger.Error("Auth service: failed to create user",
				"email", params.Email,
				"error", err.Error())
		}
		return model.TokenPair{}, err
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID)

	return pair, nil
}

// VerifyCredentials returns the user owning email when password matches its
// digest. Unknown emails and wrong passwords are indistinguishable.
func (a *Auth) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrIncorrectPassword()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Compare(user.PasswordDigest, password)
	if err != nil {
		a.logger.Error("Auth service: failed to compare password digest",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: incorrect password",
			"user_id", user.ID)
		return model.User{}, apierror.NewErrIncorrectPassword()
	}

	return user, nil
}

// SignIn opens a new session for an already authenticated user.
func (a *Auth) SignIn(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	a.logger.Debug("Auth service: signing in",
		"user_id", userID)

	pair, err := a.tokenService.Issue(ctx, userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user signed in",
		"user_id", userID)

	return pair, nil
}

func (a *Auth) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if err := a.tokenService.Revoke(ctx, userID, refreshToken); err != nil {
		a.logger.Error("Auth service: failed to delete session",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to delete session: %w", err)
	}

	a.logger.Info("Auth service: user logged out",
		"user_id", userID)

	return nil
}

func (a *Auth) RefreshToken(ctx context.Context, userID uuid.UUID, refreshToken string) (model.TokenPair, error) {
	pair, err := a.tokenService.Refresh(ctx, userID, refreshToken)
	if apierror.IsKind(err, apierror.KindRefreshTokenRevoked) {
		return model.TokenPair{}, err
	}
	if err != nil {
		a.logger.Error("Auth service: failed to rotate session",
			"user_id", userID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to refresh token: %w", err)
	}

	return pair, nil
}

// ForgotPassword issues a forgot-password token, stores it on the user and
// mails it. A new token replaces any outstanding one. When the mail cannot be
// sent the stored token is cleared again.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	a.logger.Debug("Auth service: forgot password requested",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrEmailNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token, err := a.tokenManager.Sign(user.ID, model.TokenKindForgotPassword, a.tokenManager.TTL(model.TokenKindForgotPassword))
	if err != nil {
		return fmt.Errorf("failed to sign forgot password token: %w", err)
	}

	if err := a.userStore.SetForgotPasswordToken(ctx, user.ID, token); err != nil {
		a.logger.Error("Auth service: failed to store forgot password token",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to store forgot password token: %w", err)
	}

	err = a.notifier.Send(ctx, model.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body:    "Use this token to reset your password: " + token,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to send forgot password email",
			"user_id", user.ID,
			"error", err.Error())
		// An undelivered token must not stay redeemable.
		if clearErr := a.userStore.SetForgotPasswordToken(ctx, user.ID, ""); clearErr != nil {
			a.logger.Error("Auth service: failed to clear undelivered forgot password token",
				"user_id", user.ID,
				"error", clearErr.Error())
		}
		return fmt.Errorf("failed to send forgot password email: %w", err)
	}

	a.logger.Info("Auth service: forgot password token issued",
		"user_id", user.ID)

	return nil
}

// CheckForgotPasswordToken confirms that token is the outstanding
// forgot-password token of a still existing user.
func (a *Auth) CheckForgotPasswordToken(ctx context.Context, userID uuid.UUID, token string) error {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if user.ForgotPasswordToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.ForgotPasswordToken), []byte(token)) != 1 {
		return apierror.NewErrTokenInvalid(model.TokenKindForgotPassword.String() + " token")
	}

	return nil
}

// ResetPassword sets a new password. The stored forgot-password token is
// cleared by the same update.
func (a *Auth) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	a.logger.Debug("Auth service: resetting password",
		"user_id", userID)

	if err := a.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	a.logger.Info("Auth service: password reset",
		"user_id", userID)

	return nil
}

func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	a.logger.Debug("Auth service: changing password",
		"user_id", userID)

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	ok, err := a.hasher.Compare(user.PasswordDigest, currentPassword)
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return apierror.NewErrIncorrectPassword()
	}

	if err := a.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	a.logger.Info("Auth service: password changed",
		"user_id", userID)

	return nil
}

func (a *Auth) GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (a *Auth) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	digest, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.userStore.UpdateCredential(ctx, userID, digest)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrUserNotFound()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to update credential",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to update credential: %w", err)
	}

	if !a.revokeSessionsOnPasswordChange {
		return nil
	}

	if err := a.tokenService.RevokeAllForUser(ctx, userID); err != nil {
		a.logger.Error("Auth service: failed to revoke sessions",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}
