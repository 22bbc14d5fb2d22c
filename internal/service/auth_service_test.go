package service

import (
	"testing"
	"time"

	"go-rider-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	rider := env.createRider(t, "rider@test.local", "Rider One")

	resp, err := env.auth.Login(rider.Email, "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, rider.Email, resp.User.Email)
	require.NotNil(t, resp.Role)
	assert.Equal(t, model.RoleRider, resp.Role.Code)
	assert.Contains(t, resp.Privileges, "sale:create")
	assert.NotContains(t, resp.Privileges, "distribution:create")
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	rider := env.createRider(t, "rider@test.local", "Rider One")

	_, err := env.auth.Login(rider.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login("nobody@test.local", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	rider.IsActive = false
	require.NoError(t, env.userRepo.Update(rider))
	_, err = env.auth.Login(rider.Email, "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogin_SecondLoginInvalidatesFirstToken(t *testing.T) {
	env := newTestEnv(t)
	rider := env.createRider(t, "rider@test.local", "Rider One")

	first, err := env.auth.Login(rider.Email, "secret123")
	require.NoError(t, err)

	_, err = env.auth.ValidateToken(first.Token)
	require.NoError(t, err)

	second, err := env.auth.Login(rider.Email, "secret123")
	require.NoError(t, err)

	_, err = env.auth.ValidateToken(first.Token)
	assert.Error(t, err)
	_, err = env.auth.ValidateToken(second.Token)
	assert.NoError(t, err)
}

func TestValidateToken_InactivityTimeout(t *testing.T) {
	env := newTestEnv(t)
	rider := env.createRider(t, "rider@test.local", "Rider One")

	resp, err := env.auth.Login(rider.Email, "secret123")
	require.NoError(t, err)

	// Backdate the last heartbeat past the timeout window.
	fresh, err := env.userRepo.FindByID(rider.ID)
	require.NoError(t, err)
	stale := time.Now().Add(-20 * time.Minute)
	fresh.LastSeenAt = &stale
	require.NoError(t, env.userRepo.Update(fresh))

	_, err = env.auth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)

	// A heartbeat refreshes the session.
	require.NoError(t, env.auth.Heartbeat(rider.ID))
	_, err = env.auth.ValidateToken(resp.Token)
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	rider := env.createRider(t, "rider@test.local", "Rider One")

	err := env.auth.ResetPassword(rider.Email, "wrong", "newsecret456")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = env.auth.ResetPassword("nobody@test.local", "secret123", "newsecret456")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.auth.ResetPassword(rider.Email, "secret123", "newsecret456"))

	_, err = env.auth.Login(rider.Email, "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(rider.Email, "newsecret456")
	assert.NoError(t, err)
}
