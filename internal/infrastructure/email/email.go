// Package email provides the interchangeable digest delivery backends. All
// senders share one contract: deliver to each recipient independently and
// report per-recipient outcomes; the caller decides what partial failure
// means. Credential problems are construction-time errors so a misconfigured
// transport is surfaced before any send is attempted.
package email

import (
	"fmt"

	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/ports"
)

// NewSender builds the transport selected by configuration.
func NewSender(cfg config.EmailConfig) (ports.Sender, error) {
	switch cfg.Transport {
	case "resend", "":
		return NewResendSender(cfg.Resend)
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid)
	case "smtp":
		return NewSMTPSender(cfg.SMTP)
	case "file":
		return NewFileSender(cfg.File.Path)
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.Transport)
	}
}
