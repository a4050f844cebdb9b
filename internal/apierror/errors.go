// Package apierror defines the typed errors the auth core hands to the
// transport layer. Each error carries the HTTP status it maps to and a
// concise, client-safe message.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error.
type Kind string

const (
	KindTokenInvalid        Kind = "token_invalid"
	KindTokenExpired        Kind = "token_expired"
	KindMissingToken        Kind = "missing_token"
	KindRefreshTokenRevoked Kind = "refresh_token_revoked"
	KindIncorrectPassword   Kind = "incorrect_password"
	KindEmailAlreadyTaken   Kind = "email_already_taken"
	KindEmailNotFound       Kind = "email_not_found"
	KindUserNotFound        Kind = "user_not_found"
	KindEmailNotVerified    Kind = "email_not_verified"
	KindValidation          Kind = "validation_failed"
	KindInternal            Kind = "internal"
)

// APIError is a structured error with a wire status code.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string]string
	err     error
}

func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

func NewErrTokenInvalid(tokenName string) *APIError {
	return &APIError{Kind: KindTokenInvalid, Status: http.StatusUnauthorized, Message: capitalize(tokenName) + " is invalid"}
}

func NewErrTokenExpired(tokenName string) *APIError {
	return &APIError{Kind: KindTokenExpired, Status: http.StatusUnauthorized, Message: capitalize(tokenName) + " is expired"}
}

func NewErrMissingToken(tokenName string) *APIError {
	return &APIError{Kind: KindMissingToken, Status: http.StatusUnauthorized, Message: capitalize(tokenName) + " is required"}
}

func NewErrRefreshTokenRevoked() *APIError {
	return &APIError{Kind: KindRefreshTokenRevoked, Status: http.StatusUnauthorized, Message: "This refresh token does not exist"}
}

func NewErrIncorrectPassword() *APIError {
	return &APIError{Kind: KindIncorrectPassword, Status: http.StatusUnauthorized, Message: "Incorrect password for this email"}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{Kind: KindEmailAlreadyTaken, Status: http.StatusConflict, Message: "Email already taken",
		Details: map[string]string{"email": email}}
}

func NewErrEmailNotFound() *APIError {
	return &APIError{Kind: KindEmailNotFound, Status: http.StatusNotFound, Message: "Email not found"}
}

func NewErrUserNotFound() *APIError {
	return &APIError{Kind: KindUserNotFound, Status: http.StatusNotFound, Message: "User not found"}
}

func NewErrEmailNotVerified() *APIError {
	return &APIError{Kind: KindEmailNotVerified, Status: http.StatusNotFound, Message: "Email not verified yet"}
}

func NewErrValidation(details map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusUnprocessableEntity,
		Message: "Validation failed for the request payload", Details: details}
}

// NewErrInternalServerError hides err behind a generic message. err stays
// reachable through Unwrap for logging.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal server error", err: err}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
