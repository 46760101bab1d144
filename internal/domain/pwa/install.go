package pwa

import (
	"context"
	"time"

	"github.com/sabores/backend/internal/domain/shared"
)

// Platform is the surface the app was installed from
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
)

// IsValid checks if the platform is known
func (p Platform) IsValid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformDesktop:
		return true
	}
	return false
}

// InstallEvent records one progressive web app installation, reported by
// the storefront after the browser's install prompt is accepted.
type InstallEvent struct {
	shared.BaseEntity
	Platform    Platform  `gorm:"type:varchar(20);not null;index"`
	UserAgent   string    `gorm:"type:varchar(500)"`
	InstalledAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallEvent) TableName() string {
	return "pwa_install_events"
}

// NewInstallEvent records an installation at the current time
func NewInstallEvent(platform Platform, userAgent string) (*InstallEvent, error) {
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown install platform")
	}
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}

	return &InstallEvent{
		BaseEntity:  shared.NewBaseEntity(),
		Platform:    platform,
		UserAgent:   userAgent,
		InstalledAt: time.Now(),
	}, nil
}

// InstallEventRepository appends and counts install events
type InstallEventRepository interface {
	Append(ctx context.Context, event *InstallEvent) error
	CountByPlatform(ctx context.Context) (map[Platform]int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
