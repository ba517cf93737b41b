package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stringing-service/internal/config"
	"github.com/spec-kit/stringing-service/internal/domain"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			MinPasswordLength:     6,
		},
	}
	return NewAuthService(cfg, users), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, token, exp, err := svc.RegisterUser(ctx, RegisterInput{
		GivenName:  "Lin",
		FamilyName: "Dan",
		Username:   "lindan",
		Email:      "lin@example.com",
		Password:   "super-secret",
		IsStringer: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "super-secret", user.PasswordHash)

	loggedIn, loginToken, _, err := svc.LoginUser(ctx, "lindan", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, _, err := svc.RegisterUser(ctx, RegisterInput{
		GivenName: "Lin", FamilyName: "Dan", Username: "lindan", Password: "super-secret",
	})
	require.NoError(t, err)

	_, _, _, err = svc.RegisterUser(ctx, RegisterInput{
		GivenName: "Other", FamilyName: "Lin", Username: "lindan", Password: "also-secret",
	})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, _, err := svc.RegisterUser(context.Background(), RegisterInput{
		GivenName: "Lin", FamilyName: "Dan", Username: "lindan", Password: "abc",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, _, err := svc.RegisterUser(ctx, RegisterInput{
		GivenName: "Lin", FamilyName: "Dan", Username: "lindan", Password: "super-secret",
	})
	require.NoError(t, err)

	_, _, _, err = svc.LoginUser(ctx, "lindan", "wrong-password")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.LoginUser(ctx, "nobody", "super-secret")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

// wrappedNoRowsUserRepo surfaces missing users as a wrapped pgx.ErrNoRows,
// the way a query helper adding context to errors would.
type wrappedNoRowsUserRepo struct {
	*memUserRepo
}

func (r *wrappedNoRowsUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := r.memUserRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, pgx.ErrNoRows)
	}
	return user, nil
}

func TestWrappedNoRowsTreatedAsMissingUser(t *testing.T) {
	svc, users := newAuthFixture(t)
	svc.users = &wrappedNoRowsUserRepo{memUserRepo: users}
	ctx := context.Background()

	_, _, _, err := svc.RegisterUser(ctx, RegisterInput{
		GivenName: "Lin", FamilyName: "Dan", Username: "lindan", Password: "super-secret",
	})
	require.NoError(t, err, "a wrapped no-rows lookup means the username is free")

	_, _, _, err = svc.LoginUser(ctx, "ghost", "super-secret")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, token, _, err := svc.RegisterUser(ctx, RegisterInput{
		GivenName: "Lin", FamilyName: "Dan", Username: "lindan", Password: "super-secret",
	})
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "lindan", claims.Username)
}
