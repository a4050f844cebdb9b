package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// OTPStore is a mock type for the model.OTPStore type.
type OTPStore struct {
	mock.Mock
}

var _ model.OTPStore = (*OTPStore)(nil)

func NewOTPStore(t testingT) *OTPStore {
	m := &OTPStore{}
	register(&m.Mock, t)
	return m
}

func (_m *OTPStore) Upsert(ctx context.Context, otp model.OTP) error {
	ret := _m.Called(ctx, otp)
	return ret.Error(0)
}

func (_m *OTPStore) Consume(ctx context.Context, email, code string, now time.Time) error {
	ret := _m.Called(ctx, email, code, now)
	return ret.Error(0)
}
