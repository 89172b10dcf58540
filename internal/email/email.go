// Package email composes contact-form notifications and sends them over SMTP.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// ErrNoSTARTTLS is returned when a plain-port server does not offer STARTTLS.
var ErrNoSTARTTLS = errors.New("SMTP server does not support STARTTLS")

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	To      string // operator notification address
	Timeout time.Duration

	// TLS overrides the client TLS settings. Nil verifies against the
	// system roots for Host.
	TLS *tls.Config
}

func (c SMTPConfig) tlsConfig() *tls.Config {
	if c.TLS == nil {
		return &tls.Config{ServerName: c.Host}
	}
	cfg := c.TLS.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = c.Host
	}
	return cfg
}

// IsConfigured returns true if SMTP credentials are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.User != "" && c.Pass != ""
}

// Send delivers one message from cfg.User to the given recipients.
// Port 465 uses implicit TLS; any other port must offer STARTTLS.
func Send(ctx context.Context, cfg SMTPConfig, to []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	if cfg.Port == "465" {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: cfg.tlsConfig()}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("TLS dial: %w", err)
		}
		return deliver(ctx, conn, cfg, to, msg, false)
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	return deliver(ctx, conn, cfg, to, msg, true)
}

// deliver runs the SMTP conversation on an open connection.
func deliver(ctx context.Context, conn net.Conn, cfg SMTPConfig, to []string, msg []byte, startTLS bool) (err error) {
	// The whole conversation shares one deadline: the earlier of the
	// context's and Timeout from now.
	deadline, ok := ctx.Deadline()
	if cfg.Timeout > 0 {
		if limit := time.Now().Add(cfg.Timeout); !ok || limit.Before(deadline) {
			deadline, ok = limit, true
		}
	}
	if ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return fmt.Errorf("setting deadline: %w", err)
		}
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if startTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return ErrNoSTARTTLS
		}
		if err := c.StartTLS(cfg.tlsConfig()); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if cfg.User != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.User); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	// Quit closes the connection on success.
	if err := c.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}

// headerValue strips line breaks so visitor input cannot add headers.
func headerValue(v string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// buildEmail renders a plain-text message. The subject is RFC 2047
// encoded and the body quoted-printable, so every line on the wire is
// 7-bit. A non-ASCII Reply-To cannot be expressed without SMTPUTF8 and
// is left out.
func buildEmail(from, to, replyTo, subject, body string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&buf, "To: %s\r\n", headerValue(to))
	if replyTo = headerValue(replyTo); replyTo != "" && isASCII(replyTo) {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(strings.ReplaceAll(body, "\r\n", "\n"))); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	return buf.Bytes(), nil
}
