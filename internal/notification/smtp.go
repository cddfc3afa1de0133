package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

var _ model.Notifier = (*SMTP)(nil)

// SMTP sends messages through an authenticated SMTP relay.
type SMTP struct {
	client mailClient
	from   string
	logger *logger.Logger
}

// NewSMTP creates an SMTP notifier that authenticates as sender with passkey.
func NewSMTP(host string, port int, sender, passkey string, logger *logger.Logger) (*SMTP, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(sender),
		mail.WithPassword(passkey),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPWithClient(client, sender, logger), nil
}

func newSMTPWithClient(client mailClient, sender string, logger *logger.Logger) *SMTP {
	return &SMTP{client: client, from: sender, logger: logger}
}

// Send delivers msg. Any failure is returned to the caller.
func (s *SMTP) Send(ctx context.Context, msg model.Message) error {
	m, err := buildMsg(s.from, msg)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Error("SMTP notifier: failed to send email",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err.Error())
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("SMTP notifier: email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
