package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

// SendGridSender delivers through the SendGrid v3 mail API.
type SendGridSender struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Sender = (*SendGridSender)(nil)

// NewSendGridSender builds a client from configuration; a missing API key
// is a configuration error.
func NewSendGridSender(cfg config.SendGridConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid: api key is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("sendgrid: endpoint is required")
	}
	return &SendGridSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// Name identifies the transport in configuration and logs.
func (s *SendGridSender) Name() string {
	return "sendgrid"
}

// Send posts one API request per recipient so each outcome is independent.
func (s *SendGridSender) Send(ctx context.Context, msg domain.EmailMessage) ([]domain.Delivery, error) {
	deliveries := make([]domain.Delivery, 0, len(msg.To))
	for _, recipient := range msg.To {
		deliveries = append(deliveries, domain.Delivery{
			Recipient: recipient,
			Err:       s.sendOne(ctx, msg, recipient),
		})
	}
	return deliveries, nil
}

func (s *SendGridSender) sendOne(ctx context.Context, msg domain.EmailMessage, recipient string) error {
	body, err := json.Marshal(map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": recipient}}},
		},
		"from":    map[string]string{"email": msg.From},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "text/html", "value": msg.HTML},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
