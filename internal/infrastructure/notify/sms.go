package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sabores/backend/internal/infrastructure/config"
)

// HTTPSMSSender sends SMS through an HTTP gateway API. The payload follows
// the common gateway shape: JSON body with from/to/message, bearer token
// auth.
type HTTPSMSSender struct {
	config config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSMSSender creates an SMS gateway client
func NewHTTPSMSSender(cfg config.SMSConfig, logger *zap.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Named("sms"),
	}
}

type smsRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendSMS delivers one message through the gateway
func (s *HTTPSMSSender) SendSMS(ctx context.Context, to, message string) error {
	if s.config.APIURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}

	body, err := json.Marshal(smsRequest{
		From:    s.config.From,
		To:      to,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	s.logger.Debug("SMS sent", zap.String("to", to))
	return nil
}

var _ SMSSender = (*HTTPSMSSender)(nil)
