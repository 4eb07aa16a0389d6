package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

// FileSender writes the rendered digest to disk instead of delivering it.
// Useful for preview-style deployments and for inspecting the HTML offline.
type FileSender struct {
	path string
}

var _ ports.Sender = (*FileSender)(nil)

// NewFileSender builds a sender writing to path.
func NewFileSender(path string) (*FileSender, error) {
	if path == "" {
		return nil, fmt.Errorf("file sender: path is required")
	}
	return &FileSender{path: path}, nil
}

// Name identifies the transport in configuration and logs.
func (s *FileSender) Name() string {
	return "file"
}

// Send writes the HTML body once; every recipient shares the outcome.
func (s *FileSender) Send(_ context.Context, msg domain.EmailMessage) ([]domain.Delivery, error) {
	err := s.write(msg.HTML)

	deliveries := make([]domain.Delivery, 0, len(msg.To))
	for _, recipient := range msg.To {
		deliveries = append(deliveries, domain.Delivery{Recipient: recipient, Err: err})
	}
	return deliveries, nil
}

func (s *FileSender) write(html string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}
	return nil
}
