package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/mocks"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/testutil"
)

func TestUser_Profile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("GetProfile", mock.Anything, userID).Return(model.User{
			ID:             userID,
			Name:           "Ann",
			Email:          "ann@example.com",
			PasswordDigest: "$argon2id$secret",
			CreatedAt:      created,
			UpdatedAt:      created,
		}, nil).Once()

		cm := newContextManager()
		h := NewUser(svc, cm, testutil.MakeNoopLogger())
		r := gin.New()
		r.GET("/users/profile", withPayload(cm, model.TokenKindAccess, userID), h.Profile)

		rec, env := do(t, r, http.MethodGet, "/users/profile", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var profile profileResponse
		require.NoError(t, json.Unmarshal(env.Result, &profile))
		assert.Equal(t, userID, profile.ID)
		assert.Equal(t, "ann@example.com", profile.Email)
		assert.True(t, created.Equal(profile.CreatedAt))
		assert.NotContains(t, rec.Body.String(), "argon2id")
	})

	t.Run("deleted user", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("GetProfile", mock.Anything, userID).Return(model.User{}, apierror.NewErrUserNotFound()).Once()

		cm := newContextManager()
		h := NewUser(svc, cm, testutil.MakeNoopLogger())
		r := gin.New()
		r.GET("/users/profile", withPayload(cm, model.TokenKindAccess, userID), h.Profile)

		rec, env := do(t, r, http.MethodGet, "/users/profile", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", env.Message)
	})
}
