package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// PasswordHasher is a mock type for the model.PasswordHasher type.
type PasswordHasher struct {
	mock.Mock
}

var _ model.PasswordHasher = (*PasswordHasher)(nil)

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	register(&m.Mock, t)
	return m
}

func (_m *PasswordHasher) Hash(plaintext string) (string, error) {
	ret := _m.Called(plaintext)
	return ret.String(0), ret.Error(1)
}

func (_m *PasswordHasher) Compare(digest, plaintext string) (bool, error) {
	ret := _m.Called(digest, plaintext)
	return ret.Bool(0), ret.Error(1)
}
