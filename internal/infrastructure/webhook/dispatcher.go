package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	webhookdomain "github.com/sabores/backend/internal/domain/webhook"

	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body
const SignatureHeader = "X-Webhook-Signature"

// Envelope is the payload shape delivered to every endpoint
type Envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Dispatcher fans internal events out to registered webhooks. All
// deliveries for one event run concurrently and every outcome is awaited,
// logged and counted; failures never reach the triggering request.
type Dispatcher struct {
	webhooks      webhookdomain.WebhookRepository
	logs          webhookdomain.WebhookLogRepository
	client        *http.Client
	logger        *zap.Logger
	maxConcurrent int
}

// NewDispatcher creates a dispatcher with an explicit delivery timeout
func NewDispatcher(webhooks webhookdomain.WebhookRepository, logs webhookdomain.WebhookLogRepository, cfg config.WebhookConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		webhooks: webhooks,
		logs:     logs,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:        logger.Named("webhook"),
		maxConcurrent: cfg.MaxConcurrent,
	}
}

// Handle implements shared.EventHandler so the dispatcher can subscribe
// to the event bus directly.
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	d.Dispatch(ctx, event.EventType(), event)
	return nil
}

// EventTypes subscribes the dispatcher to every event; filtering happens
// per webhook against its subscription list.
func (d *Dispatcher) EventTypes() []string {
	return nil
}

// Dispatch delivers the event to all active subscribed webhooks and
// blocks until every outcome is logged.
func (d *Dispatcher) Dispatch(ctx context.Context, eventName string, data interface{}) {
	hooks, err := d.webhooks.FindActiveByEvent(ctx, eventName)
	if err != nil {
		d.logger.Error("failed to load webhooks for event",
			zap.String("event", eventName),
			zap.Error(err),
		)
		return
	}
	if len(hooks) == 0 {
		return
	}

	body, err := json.Marshal(Envelope{
		Event:     eventName,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		d.logger.Error("failed to marshal webhook envelope",
			zap.String("event", eventName),
			zap.Error(err),
		)
		return
	}

	sem := make(chan struct{}, d.maxConcurrent)
	var wg sync.WaitGroup
	for idx := range hooks {
		hook := hooks[idx]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			d.deliver(ctx, &hook, eventName, body)
		}()
	}
	wg.Wait()
}

// deliver performs one HTTP call, appends a log row and bumps the
// webhook's counters exactly once.
func (d *Dispatcher) deliver(ctx context.Context, hook *webhookdomain.Webhook, eventName string, body []byte) {
	start := time.Now()
	status, err := d.send(ctx, hook, body)
	duration := time.Since(start)

	var entry *webhookdomain.WebhookLog
	success := err == nil
	if success {
		entry = webhookdomain.NewSuccessLog(hook.ID, eventName, status, duration)
	} else {
		entry = webhookdomain.NewFailureLog(hook.ID, eventName, status, err, duration)
		d.logger.Warn("webhook delivery failed",
			zap.String("webhook", hook.Name),
			zap.String("event", eventName),
			zap.Int("http_status", status),
			zap.Error(err),
		)
	}

	if logErr := d.logs.Append(ctx, entry); logErr != nil {
		d.logger.Error("failed to append webhook log",
			zap.String("webhook", hook.Name),
			zap.Error(logErr),
		)
	}
	if countErr := d.webhooks.IncrementCounters(ctx, hook.ID, success); countErr != nil {
		d.logger.Error("failed to increment webhook counters",
			zap.String("webhook", hook.Name),
			zap.Error(countErr),
		)
	}
}

// send performs the HTTP request. A non-2xx response counts as failure
// with its status code; transport errors return status 0.
func (d *Dispatcher) send(ctx context.Context, hook *webhookdomain.Webhook, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, hook.Method, hook.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range hook.Headers {
		req.Header.Set(key, value)
	}
	if hook.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(hook.Secret, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// Sign returns the hex HMAC-SHA256 digest of body under secret
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

var _ shared.EventHandler = (*Dispatcher)(nil)
