// Package notify sends transactional and marketing messages to customers.
// The flow executor depends on the two sender interfaces; production wiring
// provides the SMTP and HTTP gateway implementations, tests provide fakes.
package notify

import "context"

// EmailSender delivers a single email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}
