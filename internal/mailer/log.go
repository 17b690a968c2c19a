package mailer

import (
	"context"

	"github.com/recipebox/auth-service/internal/logger"
)

// LogMailer logs emails instead of sending them. It is used when no SMTP
// relay is configured, so the auth flows keep working in local development.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the email and reports success.
func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	logger.Log.Infow("email not sent, SMTP is not configured",
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}
