package service

import (
	"context"
	"time"

	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/repository"
)

// UserService handles profile reads and updates.
type UserService struct {
	users repository.UserRepository
	auth  *AuthService
}

// ProfileUpdateInput is a partial profile update; nil fields are untouched.
// Username is immutable after registration.
type ProfileUpdateInput struct {
	GivenName  *string
	FamilyName *string
	Email      *string
	Birthday   *time.Time
	Password   *string
	IsStringer *bool
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, authService *AuthService) *UserService {
	return &UserService{users: users, auth: authService}
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListStringers returns the directory of users offering stringing services.
func (s *UserService) ListStringers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListStringers(ctx)
}

// UpdateProfile applies allowed field updates to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.GivenName != nil {
		user.GivenName = *input.GivenName
	}
	if input.FamilyName != nil {
		user.FamilyName = *input.FamilyName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.IsStringer != nil {
		user.IsStringer = *input.IsStringer
	}
	if input.Password != nil && *input.Password != "" {
		if err := s.auth.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
