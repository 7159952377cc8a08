package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSender(zap.New(core))

	msg := Email{To: "alice@acme.test", Subject: "hello", TextBody: "https://acme.example.com/reset-password/abc"}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["to"] != "alice@acme.test" || fields["subject"] != "hello" {
		t.Errorf("unexpected fields %v", fields)
	}
	if !strings.Contains(fields["text_body"].(string), "/reset-password/abc") {
		t.Errorf("text body not logged: %v", fields["text_body"])
	}
}

func TestLogSender_RequiresRecipient(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	if err := s.Send(context.Background(), Email{Subject: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
}

func TestBuildPasswordResetEmail(t *testing.T) {
	msg := BuildPasswordResetEmail(PasswordResetEmailData{
		SiteName:  "TenantHub",
		Link:      "https://acme.example.com/reset-password/tok?a=1&b=2",
		ExpiresIn: "1 hour",
	})

	if msg.Subject != "Reset your TenantHub password" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.To != "" {
		t.Errorf("To = %q, want empty", msg.To)
	}
	if !strings.Contains(msg.TextBody, "https://acme.example.com/reset-password/tok?a=1&b=2") || !strings.Contains(msg.TextBody, "1 hour") {
		t.Errorf("text body:\n%s", msg.TextBody)
	}
	// the HTML body escapes the link
	if !strings.Contains(msg.HTMLBody, "tok?a=1&amp;b=2") {
		t.Errorf("html body:\n%s", msg.HTMLBody)
	}
}
