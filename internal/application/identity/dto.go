package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/identity"
)

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest creates a back-office account
type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required,max=200"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	Role         string `json:"role" binding:"required"`
	ManagerLevel int    `json:"manager_level" binding:"min=0"`
}

// UpdateUserRequest changes an account's role and status
type UpdateUserRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Role         string `json:"role" binding:"required"`
	ManagerLevel int    `json:"manager_level" binding:"min=0"`
	Active       bool   `json:"active"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// ResetPasswordRequest sets a new password without the old one (admin)
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse is the account representation. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Role         identity.Role `json:"role"`
	ManagerLevel int           `json:"manager_level"`
	Active       bool          `json:"active"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ToUserResponse converts a user aggregate to its response shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		ManagerLevel: u.ManagerLevel,
		Active:       u.Active,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}
