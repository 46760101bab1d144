package identity

import (
	"context"
	"errors"
	"time"

	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Login lockout policy
const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
)

// ErrInvalidCredentials is returned for every unsuccessful login. The
// reason (unknown email, wrong password, inactive account) is logged but
// never exposed, so responses cannot be used to probe for accounts.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// ErrAccountLocked is returned while a login lock is in effect
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")

// AuthService handles back-office authentication
type AuthService struct {
	users   identity.UserRepository
	tokens  *auth.JWTService
	revoker auth.SessionRevoker
	logger  *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, revoker auth.SessionRevoker, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger.Named("auth"),
	}
}

// Login verifies credentials and issues a session token. Failed attempts
// count toward the lockout; a success resets the counter.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*auth.SessionToken, *UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.IsLocked() {
		return nil, nil, ErrAccountLocked
	}
	if !user.CanLogin() {
		s.logger.Warn("login attempt on inactive account", zap.String("email", user.Email))
		return nil, nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, lockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			return nil, nil, err
		}
		if locked {
			s.logger.Warn("account locked after repeated failures", zap.String("email", user.Email))
			return nil, nil, ErrAccountLocked
		}
		return nil, nil, ErrInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, nil, err
	}

	token, err := s.tokens.GenerateSessionToken(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return token, &resp, nil
}

// Logout revokes the session token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

// ChangePassword changes the caller's own password and revokes the
// current session, forcing a fresh login.
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req ChangePasswordRequest) error {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	return s.revoker.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}
