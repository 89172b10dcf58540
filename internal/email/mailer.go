package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evcraddock/folio/internal/contact"
)

// SendFunc delivers a raw message. Send is the production implementation.
type SendFunc func(ctx context.Context, cfg SMTPConfig, to []string, msg []byte) error

// Mailer forwards contact-form messages to the site operator.
type Mailer struct {
	cfg     SMTPConfig
	devMode bool
	send    SendFunc
}

// NewMailer creates a mailer with the given config.
func NewMailer(cfg SMTPConfig, devMode bool) *Mailer {
	return &Mailer{cfg: cfg, devMode: devMode, send: Send}
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

// Subject returns the notification subject for a sender name.
func Subject(name string) string {
	return fmt.Sprintf("new message from the site from %s", name)
}

// Body returns the plain-text notification body.
func Body(msg contact.Message) string {
	return fmt.Sprintf(
		"A new message has arrived.\nName: %s\nEmail: %s\n\nMessage:\n%s\n\n---\nThis message was sent from the site contact form.\n",
		msg.Name, msg.Email, msg.Message,
	)
}

// Compose builds the full RFC 5322 message for msg.
func (m *Mailer) Compose(msg contact.Message) ([]byte, error) {
	return buildEmail(m.cfg.User, m.cfg.To, msg.Email, Subject(msg.Name), Body(msg))
}

// Notify sends msg to the configured notification address.
//
// Without SMTP credentials it logs a warning and returns nil; callers
// cannot tell that case apart from a delivered message. In dev mode the
// composed message is logged instead of sent.
func (m *Mailer) Notify(ctx context.Context, msg contact.Message) error {
	if !m.cfg.IsConfigured() {
		slog.Warn("SMTP credentials not configured, email not sent", "from", msg.Email)
		return nil
	}

	raw, err := m.Compose(msg)
	if err != nil {
		return err
	}

	if m.devMode {
		slog.Info("[DEV] contact email", "to", m.cfg.To, "message", string(raw))
		return nil
	}

	// Unwrapped: the handler shows the transport error to the visitor.
	if err := m.send(ctx, m.cfg, []string{m.cfg.To}, raw); err != nil {
		return err
	}

	slog.Info("contact email sent", "to", m.cfg.To)
	return nil
}
