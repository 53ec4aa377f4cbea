package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.CreateUser(ctx, " Admin@Example.com ", password, true)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", u.Email)
	require.True(t, u.IsActive)
	require.True(t, u.HasRole(domain.RoleAdmin))
	require.True(t, u.HasRole(domain.RoleUser))
	require.NoError(t, cryptox.VerifyPassword(password, u.PasswordHash))

	_, err = f.users.CreateUser(ctx, "admin@example.com", password, false)
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.users.CreateUser(ctx, "not-an-email", password, false)
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.users.CreateUser(ctx, "short@example.com", "1234567", false)
	require.ErrorIs(t, err, ErrPasswordTooShort)

	users, total, err := f.users.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, users, 1)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.createUser(t, "root@example.com", password)
	u := f.createUser(t, "user@example.com", password)

	_, err := f.users.ToggleActive(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrToggleSelf)

	// A login in progress is cut off when the account is disabled.
	res, _ := f.login(t, "user@example.com", password)

	off, err := f.users.ToggleActive(ctx, admin.ID, u.ID)
	require.NoError(t, err)
	require.False(t, off.IsActive)

	_, err = f.store.PendingAuths().GetPendingAuthByTokenHash(ctx, cryptox.FingerprintToken(res.PendingToken))
	require.ErrorIs(t, err, store.ErrNotFound)

	on, err := f.users.ToggleActive(ctx, "", u.ID)
	require.NoError(t, err)
	require.True(t, on.IsActive)

	_, err = f.users.ToggleActive(ctx, "", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
