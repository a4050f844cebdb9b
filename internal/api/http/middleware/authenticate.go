package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/token"
)

// TokenService verifies tokens and checks refresh sessions.
type TokenService interface {
	VerifyToken(token string, expected model.TokenKind) (model.TokenPayload, error)
	SessionExists(ctx context.Context, userID uuid.UUID, refreshToken string) (bool, error)
}

// ForgotPasswordChecker confirms a forgot-password token is still the
// outstanding one for its user.
type ForgotPasswordChecker interface {
	CheckForgotPasswordToken(ctx context.Context, userID uuid.UUID, token string) error
}

// Authenticate validates tokens per route and injects their payloads into
// the request context. Each check aborts before any handler runs.
type Authenticate struct {
	tokenService   TokenService
	forgotChecker  ForgotPasswordChecker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenService TokenService,
	forgotChecker ForgotPasswordChecker,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		forgotChecker:  forgotChecker,
		contextManager: contextManager,
		logger:         logger,
	}
}

type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordTokenBody struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
}

const (
	accessTokenName         = "access token"
	refreshTokenName        = "refresh token"
	forgotPasswordTokenName = "forgot password token"
)

// AccessToken requires "Authorization: Bearer <access token>".
func (m *Authenticate) AccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apierror.NewErrMissingToken(accessTokenName))
			return
		}

		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			response.Error(c, apierror.NewErrTokenInvalid(accessTokenName))
			return
		}

		payload, err := m.verify(strings.TrimSpace(raw), model.TokenKindAccess, accessTokenName)
		if err != nil {
			response.Error(c, err)
			return
		}

		m.setPayload(c, model.TokenKindAccess, payload)
		c.Next()
	}
}

// RefreshToken requires a live session for the refresh_token body field.
// When an access token was verified earlier in the chain, both must belong
// to the same subject.
func (m *Authenticate) RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body refreshTokenBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, apierror.NewErrValidation(map[string]string{"body": "must be valid JSON"}))
			return
		}
		if body.RefreshToken == "" {
			response.Error(c, apierror.NewErrMissingToken(refreshTokenName))
			return
		}

		payload, err := m.verify(body.RefreshToken, model.TokenKindRefresh, refreshTokenName)
		if err != nil {
			response.Error(c, err)
			return
		}

		ctx := c.Request.Context()
		if access, ok := m.contextManager.GetPayloadFromContext(ctx, model.TokenKindAccess); ok && access.SubjectID != payload.SubjectID {
			m.logger.Info("Authenticate middleware: refresh token subject mismatch",
				"access_subject", access.SubjectID,
				"refresh_subject", payload.SubjectID)
			response.Error(c, apierror.NewErrTokenInvalid(refreshTokenName))
			return
		}

		exists, err := m.tokenService.SessionExists(ctx, payload.SubjectID, body.RefreshToken)
		if err != nil {
			m.logger.Error("Authenticate middleware: failed to look up session",
				"user_id", payload.SubjectID,
				"error", err.Error())
			response.Error(c, fmt.Errorf("failed to look up session: %w", err))
			return
		}
		if !exists {
			response.Error(c, apierror.NewErrRefreshTokenRevoked())
			return
		}

		m.setPayload(c, model.TokenKindRefresh, payload)
		c.Next()
	}
}

// ForgotPasswordToken requires the outstanding forgot-password token of an
// existing user in the forgot_password_token body field.
func (m *Authenticate) ForgotPasswordToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body forgotPasswordTokenBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, apierror.NewErrValidation(map[string]string{"body": "must be valid JSON"}))
			return
		}
		if body.ForgotPasswordToken == "" {
			response.Error(c, apierror.NewErrMissingToken(forgotPasswordTokenName))
			return
		}

		payload, err := m.verify(body.ForgotPasswordToken, model.TokenKindForgotPassword, forgotPasswordTokenName)
		if err != nil {
			response.Error(c, err)
			return
		}

		if err := m.forgotChecker.CheckForgotPasswordToken(c.Request.Context(), payload.SubjectID, body.ForgotPasswordToken); err != nil {
			response.Error(c, err)
			return
		}

		m.setPayload(c, model.TokenKindForgotPassword, payload)
		c.Next()
	}
}

func (m *Authenticate) verify(raw string, kind model.TokenKind, name string) (model.TokenPayload, error) {
	payload, err := m.tokenService.VerifyToken(raw, kind)
	switch {
	case err == nil:
		return payload, nil
	case errors.Is(err, token.ErrTokenExpired):
		return model.TokenPayload{}, apierror.NewErrTokenExpired(name)
	case errors.Is(err, token.ErrTokenInvalid):
		m.logger.Debug("Authenticate middleware: rejected token",
			"kind", kind.String(),
			"error", err.Error())
		return model.TokenPayload{}, apierror.NewErrTokenInvalid(name)
	default:
		return model.TokenPayload{}, fmt.Errorf("failed to verify %s: %w", name, err)
	}
}

func (m *Authenticate) setPayload(c *gin.Context, kind model.TokenKind, payload model.TokenPayload) {
	c.Request = c.Request.WithContext(m.contextManager.SetPayloadToContext(c.Request.Context(), kind, payload))
}
