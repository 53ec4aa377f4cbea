package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store/drivers/sqlite"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "nutridash-service-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *recordingMailer) SendTwoFactorCode(_ context.Context, email, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentCode{Email: email, Code: code, ExpiresAt: expiresAt})
	return m.err
}

func (m *recordingMailer) last(t *testing.T) sentCode {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no code was mailed")
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	store  *sqlite.Store
	clock  *fakeClock
	mailer *recordingMailer
	auth   *AuthService
	users  *UserService
	dash   *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clock := newFakeClock(t0)
	mailer := &recordingMailer{}
	locker := lock.NewMemoryLocker()

	f := &fixture{
		store:  s,
		clock:  clock,
		mailer: mailer,
		auth: &AuthService{
			Store:     s,
			Mailer:    mailer,
			Locker:    locker,
			Passwords: Argon2Passwords{},
			Clock:     clock,
		},
		users: &UserService{Store: s, Passwords: Argon2Passwords{}, Clock: clock},
		dash:  &DashboardService{Store: s, Locker: locker, Clock: clock},
	}
	t.Cleanup(f.auth.WaitForMail)
	return f
}

func (f *fixture) createUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), email, password, false)
	require.NoError(t, err)
	return u
}

// login runs the password step and returns the result plus the mailed code.
func (f *fixture) login(t *testing.T, email, password string) (LoginResult, string) {
	t.Helper()
	res, err := f.auth.Login(context.Background(), LoginRequest{Email: email, Password: password, IPAddress: "203.0.113.7"})
	require.NoError(t, err)
	f.auth.WaitForMail()
	return res, f.mailer.last(t).Code
}
