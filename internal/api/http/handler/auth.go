package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

// AuthService defines the account and session operations behind /auth.
type AuthService interface {
	SignUp(ctx context.Context, params model.SignUpParams) (model.TokenPair, error)
	VerifyCredentials(ctx context.Context, email, password string) (model.User, error)
	SignIn(ctx context.Context, userID uuid.UUID) (model.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error
	RefreshToken(ctx context.Context, userID uuid.UUID, refreshToken string) (model.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error)
}

const (
	msgSignedUp        = "Successfully signed up"
	msgSignedIn        = "Successfully signed in"
	msgLoggedOut       = "Successfully logged out"
	msgTokenRefreshed  = "Access token successfully refreshed"
	msgResetLinkSent   = "The reset password link has been successfully sent"
	msgPasswordReset   = "The password successfully reset"
	msgPasswordChanged = "The password successfully changed"
	msgSuccessful      = "Successful"
)

type signUpRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	OTPCode  string `json:"otp_code" binding:"required,numeric"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token" binding:"required"`
	Password            string `json:"password" binding:"required,password"`
	ConfirmPassword     string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,password,nefield=CurrentPassword"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func newTokenPairResponse(pair model.TokenPair) tokenPairResponse {
	return tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// SignUp creates an account after OTP verification and opens its first session.
func (h *Auth) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	h.logger.Debug("Auth handler: processing sign up request",
		"email", req.Email)

	pair, err := h.authService.SignUp(c.Request.Context(), model.SignUpParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		OTPCode:  req.OTPCode,
	})
	if err != nil {
		h.logger.Info("Auth handler: sign up rejected",
			"email", req.Email,
			"error", err.Error())
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, msgSignedUp, newTokenPairResponse(pair))
}

// SignIn checks credentials and opens a new session.
func (h *Auth) SignIn(c *gin.Context) {
	var req signInRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	pair, err := h.authService.SignIn(ctx, user.ID)
	if err != nil {
		h.logger.Error("Auth handler: sign in failed",
			"user_id", user.ID,
			"error", err.Error())
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgSignedIn, newTokenPairResponse(pair))
}

// Logout ends the session of the presented refresh token.
func (h *Auth) Logout(c *gin.Context) {
	var req refreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	payload, ok := h.payload(c, model.TokenKindRefresh)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), payload.SubjectID, req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgLoggedOut, nil)
}

// RefreshToken rotates the presented session into a new token pair.
func (h *Auth) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	payload, ok := h.payload(c, model.TokenKindRefresh)
	if !ok {
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), payload.SubjectID, req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgTokenRefreshed, newTokenPairResponse(pair))
}

// ForgotPassword sends a reset token to the account's email.
func (h *Auth) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgResetLinkSent, nil)
}

// ResetPassword sets a new password for the subject of the forgot-password token.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	payload, ok := h.payload(c, model.TokenKindForgotPassword)
	if !ok {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), payload.SubjectID, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgPasswordReset, nil)
}

// ChangePassword replaces the password of the authenticated user.
func (h *Auth) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	payload, ok := h.payload(c, model.TokenKindAccess)
	if !ok {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), payload.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgPasswordChanged, nil)
}

// payload reads the verified token payload of kind. A missing payload means
// the route was registered without its middleware.
func (h *Auth) payload(c *gin.Context, kind model.TokenKind) (model.TokenPayload, bool) {
	return payloadFromContext(c, h.contextManager, kind, h.logger)
}

func payloadFromContext(c *gin.Context, cm model.ContextManager, kind model.TokenKind, logger *logger.Logger) (model.TokenPayload, bool) {
	payload, ok := cm.GetPayloadFromContext(c.Request.Context(), kind)
	if !ok {
		logger.Error("HTTP handler: token payload missing from context",
			"kind", kind.String(),
			"path", c.FullPath())
		response.Error(c, errPayloadMissing)
		return model.TokenPayload{}, false
	}
	return payload, true
}
