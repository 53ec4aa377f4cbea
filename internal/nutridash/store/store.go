package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by SaveDashboard when the stored version moved
	// on since the dashboard was loaded.
	ErrConflict = errors.New("store: version conflict")
)

// Store is the root data access interface. Sub-repositories are reached
// through methods so a Tx-scoped store can hand out tx-bound repos and
// nested transactions are impossible by construction.
type Store interface {
	Users() Users
	Dashboards() Dashboards
	TwoFactorCodes() TwoFactorCodes
	LoginAttempts() LoginAttempts
	PendingAuths() PendingAuths

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByEmail expects an already normalised email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// CreateUser fails with ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser persists the mutable fields: password hash, lockout state,
	// active flag, roles and updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type Dashboards interface {
	GetDashboardByUserID(ctx context.Context, userID string) (*domain.Dashboard, error)
	GetDashboardByID(ctx context.Context, id string) (*domain.Dashboard, error)

	// SaveDashboard writes the dashboard row and replaces its widgets
	// atomically. A dashboard with Version 0 is inserted; otherwise the row
	// is only updated if the stored version still equals d.Version, else
	// ErrConflict. On success d.Version holds the new version.
	SaveDashboard(ctx context.Context, d *domain.Dashboard) error
}

type TwoFactorCodes interface {
	// SaveTwoFactorCode inserts the code or updates used_at of an existing one.
	SaveTwoFactorCode(ctx context.Context, c domain.TwoFactorCode) error

	// GetActiveTwoFactorCode returns the newest unused code of userID that
	// has not expired at now.
	GetActiveTwoFactorCode(ctx context.Context, userID string, now time.Time) (domain.TwoFactorCode, error)

	DeleteExpiredTwoFactorCodes(ctx context.Context, now time.Time) (int64, error)
}

type LoginAttempts interface {
	CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error

	// ListLoginAttemptsByEmail returns the newest attempts first.
	ListLoginAttemptsByEmail(ctx context.Context, email string, limit int) ([]domain.LoginAttempt, error)
}

type PendingAuths interface {
	CreatePendingAuth(ctx context.Context, p domain.PendingAuth) error
	// GetPendingAuthByTokenHash does not filter on expiry; callers decide.
	GetPendingAuthByTokenHash(ctx context.Context, tokenHash string) (domain.PendingAuth, error)
	// IncrementPendingAuthAttempts atomically counts one more code attempt
	// and returns the new total.
	IncrementPendingAuthAttempts(ctx context.Context, id string) (int, error)
	DeletePendingAuth(ctx context.Context, id string) error
	DeletePendingAuthsByUser(ctx context.Context, userID string) error
	DeleteExpiredPendingAuths(ctx context.Context, now time.Time) (int64, error)
}
