package webhook

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sabores/backend/internal/domain/shared"
)

// EventNames is the list of event names a webhook subscribes to, stored
// as a JSON column.
type EventNames []string

// Contains reports whether the list includes the given event name
func (e EventNames) Contains(event string) bool {
	for _, name := range e {
		if name == event {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (e EventNames) Value() (driver.Value, error) {
	if e == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *EventNames) Scan(value interface{}) error {
	if value == nil {
		*e = EventNames{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for EventNames: %T", value)
	}
	return json.Unmarshal(data, e)
}

// Headers are extra HTTP headers sent with every delivery, stored as a
// JSON column.
type Headers map[string]string

// Value implements driver.Valuer
func (h Headers) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner
func (h *Headers) Scan(value interface{}) error {
	if value == nil {
		*h = Headers{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Headers: %T", value)
	}
	return json.Unmarshal(data, h)
}

// Webhook is a registered external endpoint notified of internal events.
// Success and failure counters are incremented by the repository with
// atomic SQL updates, one per delivery attempt.
type Webhook struct {
	shared.BaseAggregateRoot
	Name         string     `gorm:"type:varchar(200);not null"`
	URL          string     `gorm:"type:varchar(2000);not null"`
	Method       string     `gorm:"type:varchar(10);not null;default:POST"`
	Headers      Headers    `gorm:"type:jsonb"`
	Secret       string     `gorm:"type:varchar(255)"`
	Events       EventNames `gorm:"type:jsonb;not null"`
	Active       bool       `gorm:"not null;default:true"`
	SuccessCount int64      `gorm:"not null;default:0"`
	FailureCount int64      `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Webhook) TableName() string {
	return "webhooks"
}

// NewWebhook registers an endpoint for the given events
func NewWebhook(name, rawURL, method string, headers Headers, secret string, events EventNames) (*Webhook, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Webhook name cannot be empty")
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if method == "" {
		method = "POST"
	}
	if method != "POST" && method != "PUT" && method != "PATCH" {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unsupported webhook method %s", method))
	}
	if len(events) == 0 {
		return nil, shared.NewDomainError("INVALID_EVENTS", "Webhook must subscribe to at least one event")
	}

	return &Webhook{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		URL:               rawURL,
		Method:            method,
		Headers:           headers,
		Secret:            secret,
		Events:            events,
		Active:            true,
	}, nil
}

// Update replaces the webhook's endpoint configuration
func (w *Webhook) Update(name, rawURL, method string, headers Headers, secret string, events EventNames) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Webhook name cannot be empty")
	}
	if err := validateURL(rawURL); err != nil {
		return err
	}
	if method != "POST" && method != "PUT" && method != "PATCH" {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unsupported webhook method %s", method))
	}
	if len(events) == 0 {
		return shared.NewDomainError("INVALID_EVENTS", "Webhook must subscribe to at least one event")
	}

	w.Name = name
	w.URL = rawURL
	w.Method = method
	w.Headers = headers
	w.Secret = secret
	w.Events = events
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SubscribesTo reports whether this webhook should receive the event
func (w *Webhook) SubscribesTo(event string) bool {
	return w.Active && w.Events.Contains(event)
}

// Activate enables deliveries
func (w *Webhook) Activate() {
	w.Active = true
	w.UpdatedAt = time.Now()
}

// Deactivate disables deliveries without losing history
func (w *Webhook) Deactivate() {
	w.Active = false
	w.UpdatedAt = time.Now()
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return shared.NewDomainError("INVALID_URL", "Webhook URL must be a valid http or https URL")
	}
	return nil
}
