package pwa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstallEvent(t *testing.T) {
	t.Run("records platform and user agent", func(t *testing.T) {
		event, err := NewInstallEvent(PlatformAndroid, "Mozilla/5.0 (Linux; Android 14)")
		require.NoError(t, err)
		assert.Equal(t, PlatformAndroid, event.Platform)
		assert.False(t, event.InstalledAt.IsZero())
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		_, err := NewInstallEvent(Platform("symbian"), "")
		require.Error(t, err)
	})

	t.Run("truncates oversized user agent", func(t *testing.T) {
		event, err := NewInstallEvent(PlatformDesktop, strings.Repeat("x", 600))
		require.NoError(t, err)
		assert.Len(t, event.UserAgent, 500)
	})
}
