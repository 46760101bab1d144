package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/sabores/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a back-office user role
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleManager
}

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a back-office account. Storefront customers are not users;
// they order anonymously.
type User struct {
	shared.BaseAggregateRoot
	Email          string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name           string `gorm:"type:varchar(200);not null"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	Role           Role   `gorm:"type:varchar(20);not null"`
	ManagerLevel   int    `gorm:"not null;default:0"`
	Active         bool   `gorm:"not null;default:true"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(email, name, password string, role Role, managerLevel int) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or MANAGER")
	}
	if managerLevel < 0 {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Manager level cannot be negative")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hash),
		Role:              role,
		ManagerLevel:      managerLevel,
		Active:            true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetRole changes the role and manager level
func (u *User) SetRole(role Role, managerLevel int) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or MANAGER")
	}
	if managerLevel < 0 {
		return shared.NewDomainError("INVALID_LEVEL", "Manager level cannot be negative")
	}

	u.Role = role
	u.ManagerLevel = managerLevel
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLoginSuccess resets the failure counter and stamps the login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// RecordLoginFailure counts a failed attempt, locking the account once
// maxAttempts is reached. Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// IsLocked returns true while a login lock is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if the user may authenticate
func (u *User) CanLogin() bool {
	return u.Active && !u.IsLocked()
}

// Activate enables the account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
