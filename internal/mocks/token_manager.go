package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

var _ model.TokenManager = (*TokenManager)(nil)

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenManager) Sign(subjectID uuid.UUID, kind model.TokenKind, ttl time.Duration) (string, error) {
	ret := _m.Called(subjectID, kind, ttl)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) Verify(token string, expected model.TokenKind) (model.TokenPayload, error) {
	ret := _m.Called(token, expected)
	return ret.Get(0).(model.TokenPayload), ret.Error(1)
}

func (_m *TokenManager) TTL(kind model.TokenKind) time.Duration {
	ret := _m.Called(kind)
	return ret.Get(0).(time.Duration)
}
