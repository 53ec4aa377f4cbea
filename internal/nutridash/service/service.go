// Package service holds the application layer: it loads aggregates from the
// store, applies domain rules under per-key locks and persists the result.
package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
)

// Clock returns the current time. Services never call time.Now directly so
// expiry and lockout windows can be tested.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// nowFrom reads c at the millisecond resolution the store keeps, so a time
// compared against a reloaded timestamp sees the same instant.
func nowFrom(c Clock) time.Time {
	if c == nil {
		c = SystemClock
	}
	return c.Now().Truncate(time.Millisecond)
}

// Mailer delivers second-factor codes.
type Mailer interface {
	SendTwoFactorCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

// PasswordVerifier checks and produces password hashes.
type PasswordVerifier interface {
	Verify(password, hash string) error
	Hash(password string) (string, error)
	NeedsRehash(hash string) bool
}

// Argon2Passwords is the production PasswordVerifier. New hashes are
// argon2id; bcrypt hashes from imported accounts still verify.
type Argon2Passwords struct{}

func (Argon2Passwords) Verify(password, hash string) error { return cryptox.VerifyPassword(password, hash) }
func (Argon2Passwords) Hash(password string) (string, error) { return cryptox.HashPassword(password) }
func (Argon2Passwords) NeedsRehash(hash string) bool       { return cryptox.NeedsRehash(hash) }
