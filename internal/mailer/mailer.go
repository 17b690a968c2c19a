// Package mailer delivers the transactional emails of the auth flows:
// verification links, password reset links and reset notices.
package mailer

import "context"

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
