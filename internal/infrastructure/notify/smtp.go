package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/sabores/backend/internal/infrastructure/config"
)

// SMTPSender sends email through a plain SMTP relay
type SMTPSender struct {
	config config.SMTPConfig
	logger *zap.Logger

	// send is swappable for tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP email sender
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config: cfg,
		logger: logger.Named("smtp"),
		send:   smtp.SendMail,
	}
}

// SendEmail delivers one message. The body is sent as HTML since automation
// templates produce HTML.
func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	msg := buildMessage(s.config.From, to, subject, body)
	if err := s.send(addr, auth, s.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// buildMessage assembles an RFC 5322 message with CRLF line endings
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

var _ EmailSender = (*SMTPSender)(nil)
