package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind tags a signed token with its purpose.
type TokenKind int

const (
	TokenKindRefresh TokenKind = iota
	TokenKindAccess
	TokenKindForgotPassword
)

func (k TokenKind) String() string {
	switch k {
	case TokenKindRefresh:
		return "refresh"
	case TokenKindAccess:
		return "access"
	case TokenKindForgotPassword:
		return "forgot password"
	default:
		return "unknown"
	}
}

// TokenPayload is the decoded content of a verified token.
type TokenPayload struct {
	SubjectID uuid.UUID
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager signs and verifies tokens of every kind.
type TokenManager interface {
	Sign(subjectID uuid.UUID, kind TokenKind, ttl time.Duration) (string, error)
	Verify(token string, expected TokenKind) (TokenPayload, error)
	// TTL returns the configured lifetime for kind.
	TTL(kind TokenKind) time.Duration
}

// TokenPair is the result of a successful sign-up, sign-in or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
