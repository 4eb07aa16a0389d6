package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/domain"
)

var testMessage = domain.EmailMessage{
	From:    "digest@example.org",
	To:      []string{"one@example.org", "two@example.org"},
	Subject: "GitHub Changelog Digest - Aug 28 (2 updates)",
	HTML:    "<html><body>digest</body></html>",
}

func TestNewSenderSelectsTransport(t *testing.T) {
	t.Parallel()

	cases := []struct {
		transport string
		cfg       config.EmailConfig
		name      string
	}{
		{transport: "resend", cfg: config.EmailConfig{
			Transport: "resend",
			Resend:    config.ResendConfig{Endpoint: "https://api.resend.com/emails", APIKey: "k"},
		}, name: "resend"},
		{transport: "sendgrid", cfg: config.EmailConfig{
			Transport: "sendgrid",
			SendGrid:  config.SendGridConfig{Endpoint: "https://api.sendgrid.com/v3/mail/send", APIKey: "k"},
		}, name: "sendgrid"},
		{transport: "smtp", cfg: config.EmailConfig{
			Transport: "smtp",
			SMTP:      config.SMTPConfig{Host: "mail.example.org", Username: "u", Password: "p"},
		}, name: "smtp"},
		{transport: "file", cfg: config.EmailConfig{
			Transport: "file",
			File:      config.FileConfig{Path: "digest.html"},
		}, name: "file"},
	}

	for _, tc := range cases {
		sender, err := NewSender(tc.cfg)
		if err != nil {
			t.Fatalf("%s: %v", tc.transport, err)
		}
		if sender.Name() != tc.name {
			t.Fatalf("transport %s resolved to %s", tc.transport, sender.Name())
		}
	}
}

func TestNewSenderRejectsUnknownTransport(t *testing.T) {
	t.Parallel()

	if _, err := NewSender(config.EmailConfig{Transport: "pigeon"}); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestNewSenderMissingCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewResendSender(config.ResendConfig{Endpoint: "https://api.resend.com/emails"}); err == nil {
		t.Fatal("resend: expected error without api key")
	}
	if _, err := NewSendGridSender(config.SendGridConfig{Endpoint: "x", APIKey: ""}); err == nil {
		t.Fatal("sendgrid: expected error without api key")
	}
	if _, err := NewSMTPSender(config.SMTPConfig{Host: "mail.example.org"}); err == nil {
		t.Fatal("smtp: expected error without credentials")
	}
	if _, err := NewFileSender(""); err == nil {
		t.Fatal("file: expected error without path")
	}
}

func TestResendSendPerRecipientOutcomes(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var auths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auths = append(auths, r.Header.Get("Authorization"))
		mu.Unlock()

		var payload struct {
			From    string   `json:"from"`
			To      []string `json:"to"`
			Subject string   `json:"subject"`
			HTML    string   `json:"html"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if len(payload.To) == 1 && payload.To[0] == "two@example.org" {
			http.Error(w, `{"message":"invalid recipient"}`, http.StatusUnprocessableEntity)
			return
		}
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	sender, err := NewResendSender(config.ResendConfig{Endpoint: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewResendSender: %v", err)
	}

	deliveries, err := sender.Send(context.Background(), testMessage)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(deliveries))
	}
	if deliveries[0].Err != nil {
		t.Fatalf("first recipient should succeed: %v", deliveries[0].Err)
	}
	if deliveries[1].Err == nil {
		t.Fatal("second recipient should fail")
	}
	if !strings.Contains(deliveries[1].Err.Error(), "invalid recipient") {
		t.Fatalf("error should carry the API response: %v", deliveries[1].Err)
	}
	if !domain.AnyDelivered(deliveries) {
		t.Fatal("partial success should count as delivered")
	}

	for _, a := range auths {
		if a != "Bearer secret" {
			t.Fatalf("unexpected auth header: %s", a)
		}
	}
}

func TestSendGridSendPayloadShape(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var recipients []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Personalizations []struct {
				To []struct {
					Email string `json:"email"`
				} `json:"to"`
			} `json:"personalizations"`
			From struct {
				Email string `json:"email"`
			} `json:"from"`
			Content []struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		mu.Lock()
		for _, p := range payload.Personalizations {
			for _, to := range p.To {
				recipients = append(recipients, to.Email)
			}
		}
		mu.Unlock()
		if payload.From.Email != "digest@example.org" {
			t.Errorf("unexpected from: %s", payload.From.Email)
		}
		if len(payload.Content) != 1 || payload.Content[0].Type != "text/html" {
			t.Errorf("unexpected content block: %+v", payload.Content)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewSendGridSender(config.SendGridConfig{Endpoint: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewSendGridSender: %v", err)
	}

	deliveries, err := sender.Send(context.Background(), testMessage)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	for _, d := range deliveries {
		if d.Err != nil {
			t.Fatalf("delivery to %s failed: %v", d.Recipient, d.Err)
		}
	}
	if len(recipients) != 2 {
		t.Fatalf("expected 2 personalized requests, got %v", recipients)
	}
}

func TestSMTPSendBuildsMIMEMessage(t *testing.T) {
	t.Parallel()

	sender, err := NewSMTPSender(config.SMTPConfig{
		Host:     "mail.example.org",
		Port:     2525,
		Username: "user",
		Password: "pass",
	})
	if err != nil {
		t.Fatalf("NewSMTPSender: %v", err)
	}

	var gotAddr string
	var gotTo [][]string
	var gotMsg []byte
	sender.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = append(gotTo, to)
		gotMsg = msg
		if from != "digest@example.org" {
			t.Errorf("unexpected from: %s", from)
		}
		return nil
	}

	deliveries, err := sender.Send(context.Background(), testMessage)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(deliveries))
	}
	if gotAddr != "mail.example.org:2525" {
		t.Fatalf("unexpected addr: %s", gotAddr)
	}
	if len(gotTo) != 2 || len(gotTo[0]) != 1 {
		t.Fatalf("expected one recipient per SMTP transaction: %v", gotTo)
	}

	raw := string(gotMsg)
	for _, want := range []string{
		"From: digest@example.org\r\n",
		"To: two@example.org\r\n",
		"MIME-Version: 1.0\r\n",
		`Content-Type: text/html; charset="utf-8"`,
		"<html><body>digest</body></html>",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("MIME message missing %q:\n%s", want, raw)
		}
	}
}

func TestFileSenderWritesDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "digest.html")
	sender, err := NewFileSender(path)
	if err != nil {
		t.Fatalf("NewFileSender: %v", err)
	}

	deliveries, err := sender.Send(context.Background(), testMessage)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	for _, d := range deliveries {
		if d.Err != nil {
			t.Fatalf("delivery marked failed: %v", d.Err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != testMessage.HTML {
		t.Fatalf("unexpected file contents: %s", raw)
	}
}
