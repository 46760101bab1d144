package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/pwa"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/sabores/backend/internal/domain/webhook"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps all pooled connections on the same
	// schema while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// SQLite allows one writer at a time; a single pooled connection keeps
	// concurrent test writes from tripping over table locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductOption{},
		&delivery.DeliveryArea{},
		&settings.Settings{},
		&ordering.Order{},
		&ordering.OrderItem{},
		&identity.User{},
		&marketing.EmailAutomation{},
		&marketing.SmsAutomation{},
		&marketing.FlowTask{},
		&marketing.FlowRunLog{},
		&webhook.Webhook{},
		&webhook.WebhookLog{},
		&pwa.InstallEvent{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
