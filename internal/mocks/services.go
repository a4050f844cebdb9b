package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// TokenService is a mock type for the middleware.TokenService type.
type TokenService struct {
	mock.Mock
}

func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenService) VerifyToken(token string, expected model.TokenKind) (model.TokenPayload, error) {
	ret := _m.Called(token, expected)
	return ret.Get(0).(model.TokenPayload), ret.Error(1)
}

func (_m *TokenService) SessionExists(ctx context.Context, userID uuid.UUID, refreshToken string) (bool, error) {
	ret := _m.Called(ctx, userID, refreshToken)
	return ret.Bool(0), ret.Error(1)
}

// ForgotPasswordChecker is a mock type for the middleware.ForgotPasswordChecker type.
type ForgotPasswordChecker struct {
	mock.Mock
}

func NewForgotPasswordChecker(t testingT) *ForgotPasswordChecker {
	m := &ForgotPasswordChecker{}
	register(&m.Mock, t)
	return m
}

func (_m *ForgotPasswordChecker) CheckForgotPasswordToken(ctx context.Context, userID uuid.UUID, token string) error {
	ret := _m.Called(ctx, userID, token)
	return ret.Error(0)
}

// AuthService is a mock type for the handler.AuthService type.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (_m *AuthService) SignUp(ctx context.Context, params model.SignUpParams) (model.TokenPair, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.TokenPair), ret.Error(1)
}

func (_m *AuthService) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *AuthService) SignIn(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.TokenPair), ret.Error(1)
}

func (_m *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	ret := _m.Called(ctx, userID, refreshToken)
	return ret.Error(0)
}

func (_m *AuthService) RefreshToken(ctx context.Context, userID uuid.UUID, refreshToken string) (model.TokenPair, error) {
	ret := _m.Called(ctx, userID, refreshToken)
	return ret.Get(0).(model.TokenPair), ret.Error(1)
}

func (_m *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

func (_m *AuthService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	ret := _m.Called(ctx, userID, newPassword)
	return ret.Error(0)
}

func (_m *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	ret := _m.Called(ctx, userID, currentPassword, newPassword)
	return ret.Error(0)
}

func (_m *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.User), ret.Error(1)
}

// VerificationService is a mock type for the handler.VerificationService type.
type VerificationService struct {
	mock.Mock
}

func NewVerificationService(t testingT) *VerificationService {
	m := &VerificationService{}
	register(&m.Mock, t)
	return m
}

func (_m *VerificationService) SendOTP(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

func (_m *VerificationService) EmailStatus(ctx context.Context, email string) (bool, error) {
	ret := _m.Called(ctx, email)
	return ret.Bool(0), ret.Error(1)
}
