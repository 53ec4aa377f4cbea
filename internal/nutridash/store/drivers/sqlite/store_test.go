package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store/drivers/sqlite"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.NewAt(t0).String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		IsActive:     true,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestMigrations(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations(), "re-applying is a no-op")

	v, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 2, v)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")

	t.Run("lookup by email and id", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u, got)

		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)

		_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("update lockout state", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		for range domain.MaxFailedLoginAttempts {
			got.RecordFailedLogin(t0)
		}
		got.Roles = []string{domain.RoleUser, domain.RoleAdmin}
		require.NoError(t, s.Users().UpdateUser(ctx, got))

		again, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.MaxFailedLoginAttempts, again.FailedLoginAttempts)
		require.NotNil(t, again.BlockedUntil)
		require.True(t, again.BlockedUntil.Equal(t0.Add(domain.BlockDuration)))
		require.True(t, again.HasRole(domain.RoleAdmin))
	})

	t.Run("update unknown user", func(t *testing.T) {
		require.ErrorIs(t, s.Users().UpdateUser(ctx, domain.User{ID: "missing"}), store.ErrNotFound)
	})

	t.Run("list and count", func(t *testing.T) {
		newUser(t, s, "bob@example.com")
		n, err := s.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		users, err := s.Users().ListUsers(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "alice@example.com", users[0].Email)
	})
}

func TestDashboards(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")

	d := domain.NewDashboard(u.ID, t0)
	search, err := d.AddWidget(domain.WidgetProductSearch, 1, 1, domain.ProductSearchConfig{Barcode: "3017620422003"}, t0)
	require.NoError(t, err)
	_, err = d.AddWidget(domain.WidgetShoppingList, 1, 2, domain.ShoppingListConfig{Items: []string{"111", "222"}}, t0)
	require.NoError(t, err)
	_, err = d.AddWidget(domain.WidgetNutriscoreComparison, 2, 1, domain.ComparisonConfig{ProductBarcodes: []string{"1", "2"}}, t0)
	require.NoError(t, err)

	require.NoError(t, s.Dashboards().SaveDashboard(ctx, d))
	require.EqualValues(t, 1, d.Version)

	t.Run("round trip", func(t *testing.T) {
		got, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, d.ID, got.ID)
		require.EqualValues(t, 1, got.Version)
		require.Equal(t, d.Widgets(), got.Widgets())

		byID, err := s.Dashboards().GetDashboardByID(ctx, d.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, byID.UserID)
	})

	t.Run("swap positions in one save", func(t *testing.T) {
		got, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, got.MoveWidget(search.ID, 3, 1, t0.Add(time.Minute)))
		require.NoError(t, s.Dashboards().SaveDashboard(ctx, got))
		require.EqualValues(t, 2, got.Version)

		reloaded, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		w, err := reloaded.Widget(search.ID)
		require.NoError(t, err)
		require.Equal(t, domain.WidgetPosition{Row: 3, Column: 1}, w.Position)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		a, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		b, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)

		_, err = a.AddWidget(domain.WidgetProductSearch, 4, 1, domain.ProductSearchConfig{Barcode: "1"}, t0)
		require.NoError(t, err)
		_, err = b.AddWidget(domain.WidgetProductSearch, 4, 1, domain.ProductSearchConfig{Barcode: "2"}, t0)
		require.NoError(t, err)

		require.NoError(t, s.Dashboards().SaveDashboard(ctx, a))
		before := b.Version
		require.ErrorIs(t, s.Dashboards().SaveDashboard(ctx, b), store.ErrConflict)
		require.Equal(t, before, b.Version, "failed save leaves the version alone")

		final, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, a.WidgetCount(), final.WidgetCount())
	})

	t.Run("second dashboard for same user conflicts", func(t *testing.T) {
		other := domain.NewDashboard(u.ID, t0)
		require.ErrorIs(t, s.Dashboards().SaveDashboard(ctx, other), store.ErrConflict)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Dashboards().GetDashboardByUserID(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSaveDashboardInsideTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		d := domain.NewDashboard(u.ID, t0)
		if err := tx.Dashboards().SaveDashboard(ctx, d); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Dashboards().GetDashboardByUserID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back with the outer tx")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err, "nested transactions are refused")
		return nil
	}))
}

func TestConcurrentSavesKeepOneWinner(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")
	require.NoError(t, s.Dashboards().SaveDashboard(ctx, domain.NewDashboard(u.ID, t0)))

	const writers = 8
	loaded := make([]*domain.Dashboard, writers)
	for i := range loaded {
		d, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
		require.NoError(t, err)
		_, err = d.AddWidget(domain.WidgetProductSearch, 1, 1, domain.ProductSearchConfig{Barcode: "1"}, t0)
		require.NoError(t, err)
		loaded[i] = d
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for _, d := range loaded {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Dashboards().SaveDashboard(ctx, d)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, writers-1, conflicts)

	final, err := s.Dashboards().GetDashboardByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, final.WidgetCount())
}

func TestTwoFactorCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")
	repo := s.TwoFactorCodes()

	first, err := domain.NewTwoFactorCode(u.ID, t0)
	require.NoError(t, err)
	require.NoError(t, repo.SaveTwoFactorCode(ctx, first))

	second, err := domain.NewTwoFactorCode(u.ID, t0.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.SaveTwoFactorCode(ctx, second))

	t.Run("newest active wins", func(t *testing.T) {
		got, err := repo.GetActiveTwoFactorCode(ctx, u.ID, t0.Add(2*time.Minute))
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)
		require.Equal(t, second.Code, got.Code)
	})

	t.Run("valid at the exact expiry instant", func(t *testing.T) {
		got, err := repo.GetActiveTwoFactorCode(ctx, u.ID, second.ExpiresAt)
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)

		_, err = repo.GetActiveTwoFactorCode(ctx, u.ID, second.ExpiresAt.Add(time.Millisecond))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("used codes are not active", func(t *testing.T) {
		ok, err := second.Validate(second.Code, t0.Add(2*time.Minute))
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, repo.SaveTwoFactorCode(ctx, second))

		got, err := repo.GetActiveTwoFactorCode(ctx, u.ID, t0.Add(2*time.Minute))
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID, "older unused code is the next active one")
	})

	t.Run("housekeeping", func(t *testing.T) {
		n, err := repo.DeleteExpiredTwoFactorCodes(ctx, t0.Add(10*time.Minute+30*time.Second))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		n, err = repo.DeleteExpiredTwoFactorCodes(ctx, t0.Add(time.Hour))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}

func TestLoginAttempts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, reason := range []string{domain.ReasonUserNotFound, domain.ReasonInvalidPassword, ""} {
		a := domain.NewLoginAttempt("Alice@Example.com", "203.0.113.9", reason == "", reason, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.LoginAttempts().CreateLoginAttempt(ctx, a))
	}

	got, err := s.LoginAttempts().ListLoginAttemptsByEmail(ctx, "alice@example.com", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].Success)
	require.Equal(t, domain.ReasonInvalidPassword, got[1].Reason)
	require.Equal(t, "203.0.113.9", got[1].IPAddress)
}

func TestPendingAuths(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUser(t, s, "alice@example.com")

	code, err := domain.NewTwoFactorCode(u.ID, t0)
	require.NoError(t, err)
	p, token, err := domain.NewPendingAuth(code, t0)
	require.NoError(t, err)
	require.NotEqual(t, token, p.TokenHash)
	require.NoError(t, s.PendingAuths().CreatePendingAuth(ctx, p))

	got, err := s.PendingAuths().GetPendingAuthByTokenHash(ctx, p.TokenHash)
	require.NoError(t, err)
	require.Equal(t, p, got)

	for want := 1; want <= 2; want++ {
		attempts, err := s.PendingAuths().IncrementPendingAuthAttempts(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, want, attempts)
	}
	got, err = s.PendingAuths().GetPendingAuthByTokenHash(ctx, p.TokenHash)
	require.NoError(t, err)
	require.Equal(t, 2, got.Attempts)

	_, err = s.PendingAuths().IncrementPendingAuthAttempts(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.PendingAuths().DeleteExpiredPendingAuths(ctx, t0.Add(time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, s.PendingAuths().DeletePendingAuthsByUser(ctx, u.ID))
	_, err = s.PendingAuths().GetPendingAuthByTokenHash(ctx, p.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)
}
