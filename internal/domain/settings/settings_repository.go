package settings

import "context"

// SettingsRepository persists the singleton settings row
type SettingsRepository interface {
	// Load returns the active settings row, creating it with defaults when
	// none exists yet. Implementations must guarantee a single active row.
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
