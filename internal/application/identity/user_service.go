package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/domain/shared"
)

// UserService handles back-office account administration
type UserService struct {
	users identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create creates a new account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Name, req.Password, identity.Role(req.Role), req.ManagerLevel)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update changes an account's name, role and status
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.SetRole(identity.Role(req.Role), req.ManagerLevel); err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Active {
		user.Activate()
	} else {
		user.Deactivate()
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// List retrieves all accounts
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}

	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// GetByID retrieves one account
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
