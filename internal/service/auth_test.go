package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/token"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	require.NoError(t, token.Init())
	return NewAuthService(repository.NewMemoryUserStore())
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc := newTestAuthService(t)

	first, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", first.Role)

	second, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "employee", second.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	// 邮箱大小写不敏感
	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Other", Email: "Alice@Example.com", Password: "different",
	})
	assert.ErrorIs(t, err, errors.EmailAlreadyRegistered)
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, registered.ID, result.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, errors.InvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, errors.InvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errors.Unauthorized)
}

func TestProfile(t *testing.T) {
	svc := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)

	_, err = svc.Profile(context.Background(), 999999)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
