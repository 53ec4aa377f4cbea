// Package lock serialises work on a key (one user's dashboard, one email's
// login) across goroutines and, with Redis, across processes.
package lock

import (
	"context"
	"errors"
	"strings"
)

// ErrLockTimeout is returned when ctx ends before the lock was acquired.
var ErrLockTimeout = errors.New("lock: timed out waiting for lock")

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

// Locker hands out exclusive locks by key.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Key builds a namespaced lock key, e.g. Key("dashboard", userID).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
