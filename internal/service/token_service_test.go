package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskhub-server/internal/apierror"
	servermocks "github.com/dtroode/taskhub-server/internal/mocks"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/testutil"
)

func expectSigning(manager *servermocks.TokenManager, userID uuid.UUID, access, refresh string, decoded model.TokenPayload) {
	manager.On("TTL", model.TokenKindAccess).Return(15 * time.Minute)
	manager.On("TTL", model.TokenKindRefresh).Return(24 * time.Hour)
	manager.On("Sign", userID, model.TokenKindAccess, 15*time.Minute).Return(access, nil).Once()
	manager.On("Sign", userID, model.TokenKindRefresh, 24*time.Hour).Return(refresh, nil).Once()
	manager.On("Verify", refresh, model.TokenKindRefresh).Return(decoded, nil).Once()
}

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	iat := time.Now().Truncate(time.Second)
	decoded := model.TokenPayload{SubjectID: userID, Kind: model.TokenKindRefresh, IssuedAt: iat, ExpiresAt: iat.Add(24 * time.Hour)}

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	expectSigning(manager, userID, "access", "refresh", decoded)
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.Token == "refresh" &&
			rt.UserID == userID &&
			rt.IssuedAt.Equal(decoded.IssuedAt) &&
			rt.ExpiresAt.Equal(decoded.ExpiresAt) &&
			rt.ID != uuid.Nil
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, "refresh", pair.RefreshToken)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("TTL", mock.Anything).Return(time.Minute)
	manager.On("Sign", userID, model.TokenKindAccess, time.Minute).Return("", assert.AnError).Once()
	manager.On("Sign", userID, model.TokenKindRefresh, time.Minute).Return("refresh", nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenService_Issue_StoreError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	expectSigning(manager, userID, "access", "refresh", model.TokenPayload{SubjectID: userID})
	store.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, pair.AccessToken)
	assert.Empty(t, pair.RefreshToken)
}

func TestTokenService_Refresh(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	store.On("Consume", ctx, "old-refresh", userID).Return(nil).Once()
	expectSigning(manager, userID, "new-access", "new-refresh", model.TokenPayload{SubjectID: userID})
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.Token == "new-refresh"
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Refresh(ctx, userID, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)
}

func TestTokenService_Refresh_ConsumeError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	store.On("Consume", ctx, "old-refresh", userID).Return(assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Refresh(ctx, userID, "old-refresh")
	require.ErrorIs(t, err, assert.AnError)
	_, isAPI := apierror.As(err)
	assert.False(t, isAPI)
}

func TestTokenService_Refresh_AlreadySpent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	store.On("Consume", ctx, "old-refresh", userID).Return(model.ErrNotFound).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Refresh(ctx, userID, "old-refresh")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindRefreshTokenRevoked))
	assert.Empty(t, pair.AccessToken)
	manager.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	store := servermocks.NewRefreshTokenStore(t)
	store.On("Delete", ctx, "refresh", userID).Return(nil).Once()
	store.On("DeleteAllByUser", ctx, userID).Return(nil).Once()
	store.On("Exists", ctx, "refresh", userID).Return(false, nil).Once()

	svc := NewTokenService(servermocks.NewTokenManager(t), store, testutil.MakeNoopLogger())

	require.NoError(t, svc.Revoke(ctx, userID, "refresh"))
	require.NoError(t, svc.RevokeAllForUser(ctx, userID))

	ok, err := svc.SessionExists(ctx, userID, "refresh")
	require.NoError(t, err)
	assert.False(t, ok)
}
