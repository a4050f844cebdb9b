package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

var errPayloadMissing = errors.New("token payload missing from request context")

type profileResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User handles HTTP endpoints for the authenticated user.
type User struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Profile returns the public profile of the access token's subject.
func (h *User) Profile(c *gin.Context) {
	payload, ok := payloadFromContext(c, h.contextManager, model.TokenKindAccess, h.logger)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), payload.SubjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, msgSuccessful, profileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Description: user.Description,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
