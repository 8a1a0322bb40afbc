package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user, err := sm.UserService.Create(ctx, &structs.UserCreateRequest{
		Email:    "grace@example.com",
		Password: "correct-horse",
		Locale:   "en",
	})
	require.NoError(t, err)

	resp, err := sm.AuthService.Login(ctx, &structs.AuthRequest{Email: " Grace@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := sm.AuthService.ParseAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Sub)
	assert.Equal(t, structs.RoleCustomer, claims.Role)
	assert.False(t, claims.IsAdmin())

	_, err = sm.AuthService.Login(ctx, &structs.AuthRequest{Email: "grace@example.com", Password: "wrong-horse"})
	assert.True(t, errors.Is(err, lib.ErrInvalidCredentials))

	_, err = sm.AuthService.Login(ctx, &structs.AuthRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.True(t, errors.Is(err, lib.ErrInvalidCredentials))
}

func TestAuthService_LoginFollowsEmailChange(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user, err := sm.UserService.Create(ctx, &structs.UserCreateRequest{
		Email:    "henry@example.com",
		Password: "sturdy-password",
		Locale:   "nl",
	})
	require.NoError(t, err)

	_, err = sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{Email: ptr("henry@dallasdresses.test")})
	require.NoError(t, err)

	_, err = sm.AuthService.Login(ctx, &structs.AuthRequest{Email: "henry@dallasdresses.test", Password: "sturdy-password"})
	require.NoError(t, err)

	_, err = sm.AuthService.Login(ctx, &structs.AuthRequest{Email: "henry@example.com", Password: "sturdy-password"})
	assert.True(t, errors.Is(err, lib.ErrInvalidCredentials))
}

func TestAuthService_PasswordlessUserCannotLogin(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustUser(t, sm, "ivy@example.com")

	_, err := sm.AuthService.Login(ctx, &structs.AuthRequest{Email: "ivy@example.com", Password: "anything-goes"})
	assert.True(t, errors.Is(err, lib.ErrInvalidCredentials))
}

func TestAuthService_ParseAccessToken(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	admin := &structs.UserDto{ID: 7, Email: "admin@example.com", Role: structs.RoleAdmin}
	token, _, err := sm.AuthService.GenerateAccessToken(admin)
	require.NoError(t, err)

	claims, err := sm.AuthService.ParseAccessToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.CanActFor(42))

	_, err = sm.AuthService.ParseAccessToken(ctx, token+"x")
	assert.True(t, errors.Is(err, lib.ErrInvalidToken))

	// without a cache, logout cannot revoke and must not fail
	require.NoError(t, sm.AuthService.Logout(ctx, claims))
	assert.True(t, errors.Is(sm.AuthService.Logout(ctx, nil), lib.ErrInvalidToken))
}

func TestHealthService_MemoryStorage(t *testing.T) {
	sm := newTestServices(t)

	status, err := sm.HealthService.GetStorageHealthStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "memory", status.Driver)
	assert.Equal(t, map[string]any{"enabled": false}, status.Cache)

	server := sm.HealthService.GetServerHealthStatus()
	assert.True(t, server.ServiceAlive)
	assert.NotNil(t, server.RamStats)
}
