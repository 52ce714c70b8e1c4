package mail

import (
	"context"
	"project-pilot/internal/logger"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks project-pilot/internal/infrastructure/mail Sender

// Content is a rendered email with HTML and plain-text alternatives.
type Content struct {
	HTML string
	Text string
}

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject string, content Content) error
}

// LogSender writes emails to the log instead of delivering them. It is used
// when no SMTP host is configured.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Send(_ context.Context, to, subject string, content Content) error {
	logger.Info("Email not delivered, SMTP is not configured",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", content.Text),
		zap.String("event", "email_logged"),
	)
	return nil
}
