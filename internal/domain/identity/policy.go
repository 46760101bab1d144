package identity

// Action names a protected back-office operation. Every mutating route
// maps to exactly one action checked through Authorize.
type Action string

const (
	ActionCatalogWrite   Action = "catalog.write"
	ActionOrdersRead     Action = "orders.read"
	ActionOrdersWrite    Action = "orders.write"
	ActionOrdersDelete   Action = "orders.delete"
	ActionAreasWrite     Action = "areas.write"
	ActionSettingsWrite  Action = "settings.write"
	ActionMarketingWrite Action = "marketing.write"
	ActionWebhooksWrite  Action = "webhooks.write"
	ActionUsersWrite     Action = "users.write"
)

// Manager level required for configuration-adjacent actions
const seniorManagerLevel = 2

// Authorize is the single authorization decision point. Admins may do
// everything; managers run day-to-day operations, and senior managers
// (level >= 2) additionally manage catalog-adjacent configuration.
// Account management, webhooks and order deletion stay admin-only.
func Authorize(role Role, managerLevel int, action Action) bool {
	if role == RoleAdmin {
		return true
	}
	if role != RoleManager {
		return false
	}

	switch action {
	case ActionOrdersRead, ActionOrdersWrite, ActionCatalogWrite:
		return true
	case ActionAreasWrite, ActionSettingsWrite, ActionMarketingWrite:
		return managerLevel >= seniorManagerLevel
	case ActionOrdersDelete, ActionWebhooksWrite, ActionUsersWrite:
		return false
	}
	return false
}
