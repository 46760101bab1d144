package settings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/scheduling"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckoutItem is an additional item offered at checkout (cutlery, napkins…)
type CheckoutItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Required bool            `json:"required"`
}

// CheckoutItems is the JSON-persisted list of checkout extras
type CheckoutItems []CheckoutItem

// Value implements driver.Valuer
func (c CheckoutItems) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *CheckoutItems) Scan(value interface{}) error {
	return scanJSON(value, c, "checkout items")
}

// PopupConfig controls the storefront announcement popup
type PopupConfig struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url,omitempty"`
}

// Value implements driver.Valuer
func (p PopupConfig) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PopupConfig) Scan(value interface{}) error {
	return scanJSON(value, p, "popup config")
}

// Settings is the singleton company configuration. The repository guarantees
// exactly one active row; services load it per request and pass it
// explicitly instead of treating it as ambient state.
type Settings struct {
	shared.BaseAggregateRoot
	CompanyName       string                  `gorm:"type:varchar(200);not null"`
	Online            bool                    `gorm:"not null;default:true"`
	VATRate           decimal.Decimal         `gorm:"type:decimal(5,2);not null;default:0"` // percent
	OpeningHours      scheduling.WeekSchedule `gorm:"type:jsonb;not null"`
	LeadTimeMinutes   int                     `gorm:"not null;default:30"`
	SchedulingEnabled bool                    `gorm:"not null;default:true"`
	OriginLat         float64                 `gorm:"not null;default:0"`
	OriginLng         float64                 `gorm:"not null;default:0"`
	CheckoutItems     CheckoutItems           `gorm:"type:jsonb"`
	Popup             PopupConfig             `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "settings"
}

// NewSettings creates the settings row with sensible defaults
func NewSettings(companyName string) *Settings {
	return &Settings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		Online:            true,
		VATRate:           decimal.NewFromInt(23),
		OpeningHours:      scheduling.DefaultWeekSchedule(),
		LeadTimeMinutes:   30,
		SchedulingEnabled: true,
		CheckoutItems:     CheckoutItems{},
	}
}

// Origin returns the restaurant coordinate used for distance-based fees
func (s *Settings) Origin() delivery.Point {
	return delivery.Point{Lat: s.OriginLat, Lng: s.OriginLng}
}

// LeadTime returns the minimum scheduling lead time
func (s *Settings) LeadTime() time.Duration {
	return time.Duration(s.LeadTimeMinutes) * time.Minute
}

// SchedulingValidator builds a validator from the current configuration
func (s *Settings) SchedulingValidator() *scheduling.Validator {
	return scheduling.NewValidator(s.OpeningHours, s.LeadTime(), s.SchedulingEnabled)
}

// SetOnline toggles online ordering
func (s *Settings) SetOnline(online bool) {
	s.Online = online
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetVATRate sets the VAT percentage
func (s *Settings) SetVATRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VAT", "VAT rate must be between 0 and 100")
	}
	s.VATRate = rate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetOpeningHours replaces the weekly schedule after validating it
func (s *Settings) SetOpeningHours(schedule scheduling.WeekSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	s.OpeningHours = schedule
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetLeadTime sets the scheduling lead time in minutes
func (s *Settings) SetLeadTime(minutes int) error {
	if minutes < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	s.LeadTimeMinutes = minutes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetOrigin sets the restaurant coordinate
func (s *Settings) SetOrigin(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return shared.NewDomainError("INVALID_ORIGIN", "Origin coordinate is out of range")
	}
	s.OriginLat = lat
	s.OriginLng = lng
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// scanJSON decodes a JSON column into dst
func scanJSON(value interface{}, dst interface{}, what string) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported %s column type %T", what, value)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return nil
}
