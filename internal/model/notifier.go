package model

import "context"

// Message is an outbound notification addressed to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier dispatches messages to users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Storage stores opaque objects under a key.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}
