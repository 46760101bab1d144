package settings

import (
	"context"
	"time"

	"github.com/sabores/backend/internal/domain/scheduling"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/sabores/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateRequest replaces the editable company settings
type UpdateRequest struct {
	CompanyName       string                   `json:"company_name" binding:"required,max=200"`
	Online            bool                     `json:"online"`
	VATRate           decimal.Decimal          `json:"vat_rate"`
	OpeningHours      *scheduling.WeekSchedule `json:"opening_hours"`
	LeadTimeMinutes   int                      `json:"lead_time_minutes" binding:"min=0"`
	SchedulingEnabled bool                     `json:"scheduling_enabled"`
	OriginLat         float64                  `json:"origin_lat"`
	OriginLng         float64                  `json:"origin_lng"`
	CheckoutItems     settings.CheckoutItems   `json:"checkout_items"`
	Popup             *settings.PopupConfig    `json:"popup"`
}

// Response is the admin-facing settings representation
type Response struct {
	CompanyName       string                  `json:"company_name"`
	Online            bool                    `json:"online"`
	VATRate           decimal.Decimal         `json:"vat_rate"`
	OpeningHours      scheduling.WeekSchedule `json:"opening_hours"`
	LeadTimeMinutes   int                     `json:"lead_time_minutes"`
	SchedulingEnabled bool                    `json:"scheduling_enabled"`
	OriginLat         float64                 `json:"origin_lat"`
	OriginLng         float64                 `json:"origin_lng"`
	CheckoutItems     settings.CheckoutItems  `json:"checkout_items"`
	Popup             settings.PopupConfig    `json:"popup"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ToResponse converts the settings aggregate to its response shape
func ToResponse(s *settings.Settings) Response {
	return Response{
		CompanyName:       s.CompanyName,
		Online:            s.Online,
		VATRate:           s.VATRate,
		OpeningHours:      s.OpeningHours,
		LeadTimeMinutes:   s.LeadTimeMinutes,
		SchedulingEnabled: s.SchedulingEnabled,
		OriginLat:         s.OriginLat,
		OriginLng:         s.OriginLng,
		CheckoutItems:     s.CheckoutItems,
		Popup:             s.Popup,
		UpdatedAt:         s.UpdatedAt,
	}
}

// Service manages the singleton company settings
type Service struct {
	settings settings.SettingsRepository
	cache    cache.Store
	logger   *zap.Logger
}

// NewService creates a new settings Service
func NewService(repo settings.SettingsRepository, store cache.Store, logger *zap.Logger) *Service {
	return &Service{
		settings: repo,
		cache:    store,
		logger:   logger.Named("settings"),
	}
}

// Get loads the current settings, creating defaults on first call
func (s *Service) Get(ctx context.Context) (*Response, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(cfg)
	return &resp, nil
}

// Update applies the request to the settings row. The whole update is
// validated before anything is saved, so a bad schedule never half-applies.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Response, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := cfg.SetVATRate(req.VATRate); err != nil {
		return nil, err
	}
	if req.OpeningHours != nil {
		if err := cfg.SetOpeningHours(*req.OpeningHours); err != nil {
			return nil, err
		}
	}
	if err := cfg.SetLeadTime(req.LeadTimeMinutes); err != nil {
		return nil, err
	}
	if err := cfg.SetOrigin(req.OriginLat, req.OriginLng); err != nil {
		return nil, err
	}

	cfg.CompanyName = req.CompanyName
	cfg.SetOnline(req.Online)
	cfg.SchedulingEnabled = req.SchedulingEnabled
	cfg.CheckoutItems = req.CheckoutItems
	if req.Popup != nil {
		cfg.Popup = *req.Popup
	}

	if err := s.settings.Save(ctx, cfg); err != nil {
		return nil, err
	}

	// Both public projections read from settings.
	_ = s.cache.InvalidateAll(ctx)

	s.logger.Info("settings updated",
		zap.Bool("online", cfg.Online),
		zap.String("vat_rate", cfg.VATRate.String()),
	)

	resp := ToResponse(cfg)
	return &resp, nil
}

// AvailableSlots lists schedulable order slots for the next `days` days
func (s *Service) AvailableSlots(ctx context.Context, days int, step time.Duration) ([]scheduling.Slot, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.SchedulingValidator().AvailableSlots(days, step), nil
}
