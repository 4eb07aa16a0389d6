package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

// SMTPSender delivers through a plain SMTP relay with PLAIN auth.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	// sendMail is swapped out in tests; production uses smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.Sender = (*SMTPSender)(nil)

// NewSMTPSender builds a sender from configuration; missing host or
// credentials are configuration errors.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp: username and password are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		sendMail: smtp.SendMail,
	}, nil
}

// Name identifies the transport in configuration and logs.
func (s *SMTPSender) Name() string {
	return "smtp"
}

// Send delivers one message per recipient so each outcome is independent.
// net/smtp carries no context; the relay connection applies its own
// timeouts.
func (s *SMTPSender) Send(_ context.Context, msg domain.EmailMessage) ([]domain.Delivery, error) {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	deliveries := make([]domain.Delivery, 0, len(msg.To))
	for _, recipient := range msg.To {
		raw := buildMIMEMessage(msg, recipient)
		err := s.sendMail(addr, auth, msg.From, []string{recipient}, raw)
		if err != nil {
			err = fmt.Errorf("smtp send: %w", err)
		}
		deliveries = append(deliveries, domain.Delivery{Recipient: recipient, Err: err})
	}
	return deliveries, nil
}

func buildMIMEMessage(msg domain.EmailMessage, recipient string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
