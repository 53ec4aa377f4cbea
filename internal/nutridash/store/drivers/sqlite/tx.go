package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error { return t.tx.Commit() }

func (t *txStore) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return err
	}
	return nil
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                   { return &usersRepo{q: t.tx} }
func (t *txStore) Dashboards() store.Dashboards         { return &dashboardsRepo{q: t.tx} }
func (t *txStore) TwoFactorCodes() store.TwoFactorCodes { return &twoFactorCodesRepo{q: t.tx} }
func (t *txStore) LoginAttempts() store.LoginAttempts   { return &loginAttemptsRepo{q: t.tx} }
func (t *txStore) PendingAuths() store.PendingAuths     { return &pendingAuthsRepo{q: t.tx} }

// ApplyMigrations is a no-op; migrations run on the root store before any tx.
func (t *txStore) ApplyMigrations() error { return nil }
