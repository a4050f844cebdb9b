package context

import (
	"context"

	"github.com/dtroode/taskhub-server/internal/model"
)

// payloadKey keys a verified token payload by its kind, so an access and a
// refresh payload can live in the same request context.
type payloadKey struct {
	kind model.TokenKind
}

// Manager stores verified token payloads in request contexts.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPayloadToContext returns a copy of ctx carrying payload under kind.
//
// Parameters:
//   - ctx: The request context
//   - kind: The token kind the payload was verified as
//   - payload: The verified token payload
//
// Returns a new context with the payload stored under kind.
func (m *Manager) SetPayloadToContext(ctx context.Context, kind model.TokenKind, payload model.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey{kind: kind}, payload)
}

// GetPayloadFromContext returns the payload stored under kind, if any.
//
// Parameters:
//   - ctx: The request context
//   - kind: The token kind to look up
//
// Returns the payload and a boolean indicating if one was found.
func (m *Manager) GetPayloadFromContext(ctx context.Context, kind model.TokenKind) (model.TokenPayload, bool) {
	payload, ok := ctx.Value(payloadKey{kind: kind}).(model.TokenPayload)
	return payload, ok
}
