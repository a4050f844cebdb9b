package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// RefreshTokenStore is a mock type for the model.RefreshTokenStore type.
type RefreshTokenStore struct {
	mock.Mock
}

var _ model.RefreshTokenStore = (*RefreshTokenStore)(nil)

func NewRefreshTokenStore(t testingT) *RefreshTokenStore {
	m := &RefreshTokenStore{}
	register(&m.Mock, t)
	return m
}

func (_m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *RefreshTokenStore) Exists(ctx context.Context, token string, userID uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, token, userID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *RefreshTokenStore) Delete(ctx context.Context, token string, userID uuid.UUID) error {
	ret := _m.Called(ctx, token, userID)
	return ret.Error(0)
}

func (_m *RefreshTokenStore) Consume(ctx context.Context, token string, userID uuid.UUID) error {
	ret := _m.Called(ctx, token, userID)
	return ret.Error(0)
}

func (_m *RefreshTokenStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}
