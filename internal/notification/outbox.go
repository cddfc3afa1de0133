package notification

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

const emlContentType = "message/rfc822"

var _ model.Notifier = (*Outbox)(nil)

// Outbox writes rendered messages as .eml objects instead of sending them.
// It backs development and staging setups that have no mail relay.
type Outbox struct {
	storage model.Storage
	from    string
	now     func() time.Time
	logger  *logger.Logger
}

func NewOutbox(storage model.Storage, sender string, logger *logger.Logger) *Outbox {
	return &Outbox{storage: storage, from: sender, now: time.Now, logger: logger}
}

// Send stores msg under outbox/<date>/<id>.eml.
func (o *Outbox) Send(ctx context.Context, msg model.Message) error {
	m, err := buildMsg(o.from, msg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	key := fmt.Sprintf("outbox/%s/%s.eml", o.now().UTC().Format("2006/01/02"), uuid.NewString())
	if err := o.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), emlContentType); err != nil {
		o.logger.Error("Outbox notifier: failed to store email",
			"to", msg.To,
			"key", key,
			"error", err.Error())
		return fmt.Errorf("failed to store email: %w", err)
	}

	o.logger.Info("Outbox notifier: email stored", "to", msg.To, "key", key)
	return nil
}
