// Package notify delivers outbound user messages.
package notify

import (
	"context"

	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

// Log writes messages to the application log instead of sending them.
type Log struct {
	logger *logger.Logger
}

var _ model.Notifier = (*Log)(nil)

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (n *Log) Send(ctx context.Context, msg model.Message) error {
	n.logger.InfoContext(ctx, "Notifier: message",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}
