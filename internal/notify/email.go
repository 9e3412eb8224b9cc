package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/spec-kit/support-desk/internal/config"
)

// EmailNotifier sends notifications over authenticated SMTP.
type EmailNotifier struct {
	cfg config.NotificationConfig
}

// NewEmailNotifier returns nil when any of sender, password or recipient is missing.
func NewEmailNotifier(cfg config.NotificationConfig) *EmailNotifier {
	if !cfg.EmailEnabled() {
		return nil
	}
	return &EmailNotifier{cfg: cfg}
}

// Notify sends a single plain-text email.
func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	msg, err := e.message(n)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(e.cfg.SMTPHost,
		mail.WithPort(e.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.cfg.EmailFrom),
		mail.WithPassword(e.cfg.EmailPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (e *EmailNotifier) message(n Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.cfg.EmailFrom); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(e.cfg.EmailTo); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(n.Subject())
	msg.SetBodyString(mail.TypeTextPlain, n.Body())
	return msg, nil
}
