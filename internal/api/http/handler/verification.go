package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/logger"
)

// VerificationService defines email verification operations.
type VerificationService interface {
	SendOTP(ctx context.Context, email string) error
	EmailStatus(ctx context.Context, email string) (bool, error)
}

const msgOTPSent = "Verification code has been sent"

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type emailStatusResponse struct {
	Email      string `json:"email"`
	EmailTaken bool   `json:"email_taken"`
}

// Verification handles HTTP endpoints for email verification.
type Verification struct {
	service VerificationService
	logger  *logger.Logger
}

// NewVerification creates a new Verification handler.
func NewVerification(service VerificationService, logger *logger.Logger) *Verification {
	return &Verification{service: service, logger: logger}
}

// SendOTP issues a fresh verification code to the email in the body.
func (h *Verification) SendOTP(c *gin.Context) {
	var req emailRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.SendOTP(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgOTPSent, nil)
}

// EmailStatus reports whether the email in the query already has an account.
func (h *Verification) EmailStatus(c *gin.Context) {
	var req emailRequest
	if err := bindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	taken, err := h.service.EmailStatus(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgSuccessful, emailStatusResponse{Email: req.Email, EmailTaken: taken})
}
