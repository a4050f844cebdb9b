package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/taskhub-server/internal/model"
)

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens and kind mismatches.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token is expired")
)

// Claims represents JWT claims with token kind and subject ID.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID uuid.UUID        `json:"subject_id"`
	Kind      *model.TokenKind `json:"token_kind"`
}

// Key is the HMAC secret and default lifetime of one token kind.
type Key struct {
	Secret []byte
	TTL    time.Duration
}

// JWT implements TokenManager backed by symmetric HMAC, one secret per kind.
type JWT struct {
	keys map[model.TokenKind]Key
	now  func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a token manager. Every kind must have a non-empty secret.
func NewJWT(keys map[model.TokenKind]Key) (*JWT, error) {
	for _, kind := range []model.TokenKind{model.TokenKindRefresh, model.TokenKindAccess, model.TokenKindForgotPassword} {
		key, ok := keys[kind]
		if !ok || len(key.Secret) == 0 {
			return nil, fmt.Errorf("missing signing secret for %s token", kind)
		}
	}
	return &JWT{keys: keys, now: time.Now}, nil
}

// TTL returns the configured lifetime for kind.
func (j *JWT) TTL(kind model.TokenKind) time.Duration {
	return j.keys[kind].TTL
}

// Sign creates a token of the given kind for subjectID that expires after ttl.
func (j *JWT) Sign(subjectID uuid.UUID, kind model.TokenKind, ttl time.Duration) (string, error) {
	key, ok := j.keys[kind]
	if !ok {
		return "", fmt.Errorf("no signing secret for %s token", kind)
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SubjectID: subjectID,
		Kind:      &kind,
	})

	tokenString, err := token.SignedString(key.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Verify checks signature and kind, then expiry, and returns the payload.
// A kind mismatch is reported as ErrTokenInvalid regardless of expiry.
func (j *JWT) Verify(tokenString string, expected model.TokenKind) (model.TokenPayload, error) {
	key, ok := j.keys[expected]
	if !ok {
		return model.TokenPayload{}, fmt.Errorf("no signing secret for %s token", expected)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return key.Secret, nil
	}, jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.TokenPayload{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if claims.Kind == nil || *claims.Kind != expected {
		return model.TokenPayload{}, fmt.Errorf("%w: token kind mismatch, want %s", ErrTokenInvalid, expected)
	}
	if claims.SubjectID == uuid.Nil || claims.IssuedAt == nil {
		return model.TokenPayload{}, fmt.Errorf("%w: incomplete claims", ErrTokenInvalid)
	}

	validator := jwt.NewValidator(jwt.WithExpirationRequired(), jwt.WithIssuedAt(), jwt.WithTimeFunc(j.now))
	if err := validator.Validate(claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenPayload{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return model.TokenPayload{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	return model.TokenPayload{
		SubjectID: claims.SubjectID,
		Kind:      *claims.Kind,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
