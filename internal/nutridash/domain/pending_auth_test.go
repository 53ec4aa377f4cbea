package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestNewPendingAuth(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code, err := domain.NewTwoFactorCode("user-1", now)
	require.NoError(t, err)

	p, token, err := domain.NewPendingAuth(code, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, token, p.TokenHash)
	require.Equal(t, cryptox.FingerprintToken(token), p.TokenHash)
	require.Equal(t, "user-1", p.UserID)
	require.Equal(t, code.ExpiresAt, p.ExpiresAt)

	require.False(t, p.IsExpired(code.ExpiresAt))
	require.True(t, p.IsExpired(code.ExpiresAt.Add(time.Nanosecond)))

	_, other, err := domain.NewPendingAuth(code, now)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}
