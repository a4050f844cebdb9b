package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
)

const emlContentType = "message/rfc822"

// ObjectStore drops each message as an .eml object for an external mail
// relay to pick up. Keys look like mail/<to>/<unix-nanos>.eml.
type ObjectStore struct {
	storage model.Storage
	from    string
	logger  *logger.Logger
	now     func() time.Time
}

var _ model.Notifier = (*ObjectStore)(nil)

func NewObjectStore(storage model.Storage, from string, logger *logger.Logger) *ObjectStore {
	return &ObjectStore{
		storage: storage,
		from:    from,
		logger:  logger,
		now:     time.Now,
	}
}

func (n *ObjectStore) Send(ctx context.Context, msg model.Message) error {
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	sentAt := n.now().UTC()
	key := fmt.Sprintf("mail/%s/%d.eml", to.Address, sentAt.UnixNano())

	if err := n.storage.Upload(ctx, key, n.render(to.Address, sentAt, msg), emlContentType); err != nil {
		n.logger.Error("Notifier: failed to drop message",
			"to", to.Address,
			"key", key,
			"error", err.Error())
		return fmt.Errorf("failed to drop message: %w", err)
	}

	n.logger.Debug("Notifier: message dropped",
		"to", to.Address,
		"key", key)

	return nil
}

func (n *ObjectStore) render(to string, sentAt time.Time, msg model.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", sentAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
