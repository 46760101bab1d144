package pwa

import (
	"context"
	"time"

	"github.com/sabores/backend/internal/domain/pwa"
	"go.uber.org/zap"
)

// RecordRequest is the public install report payload
type RecordRequest struct {
	Platform string `json:"platform" binding:"required,oneof=android ios desktop"`
}

// StatsResponse summarizes installations for the admin dashboard
type StatsResponse struct {
	Total      int64                  `json:"total"`
	ByPlatform map[pwa.Platform]int64 `json:"by_platform"`
	Last30Days int64                  `json:"last_30_days"`
}

// InstallService records and summarizes progressive web app installs
type InstallService struct {
	installs pwa.InstallEventRepository
	logger   *zap.Logger
}

// NewInstallService creates a new InstallService
func NewInstallService(installs pwa.InstallEventRepository, logger *zap.Logger) *InstallService {
	return &InstallService{
		installs: installs,
		logger:   logger.Named("pwa"),
	}
}

// Record stores one install event reported by the storefront
func (s *InstallService) Record(ctx context.Context, req RecordRequest, userAgent string) error {
	event, err := pwa.NewInstallEvent(pwa.Platform(req.Platform), userAgent)
	if err != nil {
		return err
	}
	if err := s.installs.Append(ctx, event); err != nil {
		return err
	}

	s.logger.Info("pwa installed", zap.String("platform", req.Platform))
	return nil
}

// Stats aggregates install counts per platform and for the last 30 days
func (s *InstallService) Stats(ctx context.Context) (*StatsResponse, error) {
	byPlatform, err := s.installs.CountByPlatform(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byPlatform {
		total += count
	}

	recent, err := s.installs.CountSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		Total:      total,
		ByPlatform: byPlatform,
		Last30Days: recent,
	}, nil
}
