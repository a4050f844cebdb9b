package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Issue signs an access and refresh token for userID and records the
// refresh token as a new session. A failure to record the session fails
// the call, so no unrevocable token is ever handed out.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	var access, refresh string

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		access, err = s.manager.Sign(userID, model.TokenKindAccess, s.manager.TTL(model.TokenKindAccess))
		if err != nil {
			return fmt.Errorf("issue access: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		refresh, err = s.manager.Sign(userID, model.TokenKindRefresh, s.manager.TTL(model.TokenKindRefresh))
		if err != nil {
			return fmt.Errorf("issue refresh: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.TokenPair{}, err
	}

	decoded, err := s.manager.Verify(refresh, model.TokenKindRefresh)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("decode refresh: %w", err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		Token:     refresh,
		UserID:    userID,
		IssuedAt:  decoded.IssuedAt,
		ExpiresAt: decoded.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, rt); err != nil {
		s.logger.Error("Token service: failed to persist refresh token",
			"user_id", userID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a session: the presented refresh token is consumed and a
// fresh pair is issued. Of several concurrent calls with the same token only
// one gets a pair; the rest see a revoked refresh token.
func (s *TokenService) Refresh(ctx context.Context, userID uuid.UUID, presentedRefresh string) (model.TokenPair, error) {
	err := s.store.Consume(ctx, presentedRefresh, userID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: refresh token already spent",
			"user_id", userID)
		return model.TokenPair{}, apierror.NewErrRefreshTokenRevoked()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	pair, err := s.Issue(ctx, userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue rotated pair: %w", err)
	}

	return pair, nil
}

func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return s.store.Delete(ctx, refreshToken, userID)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.DeleteAllByUser(ctx, userID)
}

// VerifyToken checks a token of the expected kind.
func (s *TokenService) VerifyToken(token string, expected model.TokenKind) (model.TokenPayload, error) {
	return s.manager.Verify(token, expected)
}

// SessionExists reports whether refreshToken is a live session of userID.
func (s *TokenService) SessionExists(ctx context.Context, userID uuid.UUID, refreshToken string) (bool, error) {
	return s.store.Exists(ctx, refreshToken, userID)
}
