package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/stringing-service/internal/auth"
	"github.com/spec-kit/stringing-service/internal/config"
	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/repository"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	minPassword int
}

// RegisterInput describes a new account.
type RegisterInput struct {
	GivenName  string
	FamilyName string
	Username   string
	Email      string
	Password   string
	Birthday   *time.Time
	IsStringer bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:       users,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: cfg.Auth.MinPasswordLength,
	}
}

// RegisterUser creates a new account and returns it with a signed token.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict(
			fmt.Sprintf("username %q is already taken", input.Username), nil)
	} else if !errors.Is(err, pgx.ErrNoRows) && !apperrors.IsCode(err, "NOT_FOUND") {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		GivenName:    input.GivenName,
		FamilyName:   input.FamilyName,
		Username:     input.Username,
		Email:        input.Email,
		Birthday:     input.Birthday,
		PasswordHash: hash,
		IsStringer:   input.IsStringer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginUser authenticates by username and password.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || apperrors.IsCode(err, "NOT_FOUND") {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ValidatePassword enforces the minimum password length.
func (s *AuthService) ValidatePassword(password string) error {
	min := s.minPassword
	if min <= 0 {
		min = 6
	}
	if len(password) < min {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", min),
			map[string]any{"field": "password"})
	}
	return nil
}

// HashPassword hashes with the configured cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	return auth.HashPassword(password, s.bcryptCost)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
