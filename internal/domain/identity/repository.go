package identity

import (
	"context"

	"github.com/sabores/backend/internal/domain/shared"
)

// UserRepository persists back-office users
type UserRepository interface {
	shared.Repository[User]
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
