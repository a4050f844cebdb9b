package model

import "context"

// ContextManager attaches a verified token payload to a request context and
// reads it back downstream.
type ContextManager interface {
	SetPayloadToContext(ctx context.Context, kind TokenKind, payload TokenPayload) context.Context
	GetPayloadFromContext(ctx context.Context, kind TokenKind) (TokenPayload, bool)
}
