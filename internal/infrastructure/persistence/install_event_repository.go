package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/pwa"
)

// GormInstallEventRepository implements InstallEventRepository using GORM
type GormInstallEventRepository struct {
	db *gorm.DB
}

// NewGormInstallEventRepository creates a new GormInstallEventRepository
func NewGormInstallEventRepository(db *gorm.DB) *GormInstallEventRepository {
	return &GormInstallEventRepository{db: db}
}

// Append stores an install event
func (r *GormInstallEventRepository) Append(ctx context.Context, event *pwa.InstallEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CountByPlatform returns install totals per platform
func (r *GormInstallEventRepository) CountByPlatform(ctx context.Context) (map[pwa.Platform]int64, error) {
	type row struct {
		Platform pwa.Platform
		Total    int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&pwa.InstallEvent{}).
		Select("platform, COUNT(*) AS total").
		Group("platform").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[pwa.Platform]int64, len(rows))
	for _, r := range rows {
		counts[r.Platform] = r.Total
	}
	return counts, nil
}

// CountSince counts installs recorded after the given time
func (r *GormInstallEventRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pwa.InstallEvent{}).
		Where("installed_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormInstallEventRepository implements InstallEventRepository
var _ pwa.InstallEventRepository = (*GormInstallEventRepository)(nil)
