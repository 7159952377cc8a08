// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Email is one outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers Email.
type Sender interface {
	Send(ctx context.Context, msg Email) error
}

var ErrNoRecipient = errors.New("mailer: missing recipient")

// LogSender writes messages to the log instead of delivering them. The text
// body is logged so links can be followed in development.
type LogSender struct {
	Log *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{Log: logger}
}

func (s *LogSender) Send(_ context.Context, msg Email) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.Log.Info("email not delivered (log mailer)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text_body", msg.TextBody))
	return nil
}
