package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@example.com", password)
	res, _ := f.login(t, "a@example.com", password)

	hk := NewHousekeepingService(f.store, slog.New(slog.DiscardHandler), time.Minute)
	hk.Clock = f.clock

	hk.Cleanup(ctx)
	_, err := f.store.PendingAuths().GetPendingAuthByTokenHash(ctx, cryptox.FingerprintToken(res.PendingToken))
	require.NoError(t, err, "live records are kept")

	f.clock.Advance(domain.TwoFactorCodeTTL + time.Minute)
	hk.Cleanup(ctx)

	_, err = f.store.PendingAuths().GetPendingAuthByTokenHash(ctx, cryptox.FingerprintToken(res.PendingToken))
	require.ErrorIs(t, err, store.ErrNotFound)
	n, err := f.store.TwoFactorCodes().DeleteExpiredTwoFactorCodes(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Zero(t, n, "expired codes were already removed")

	attempts, err := f.store.LoginAttempts().ListLoginAttemptsByEmail(ctx, "a@example.com", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1, "audit trail is never cleaned")
}

func TestHousekeepingStartStop(t *testing.T) {
	f := newFixture(t)
	hk := NewHousekeepingService(f.store, slog.New(slog.DiscardHandler), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Stop()
	hk.Start()
	hk.Stop()
}
