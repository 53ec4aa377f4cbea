package domain

import (
	"slices"
	"strings"
	"time"
)

// Lockout policy.
const (
	MaxFailedLoginAttempts = 5
	BlockDuration          = 15 * time.Minute
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                  string
	Email               string // unique, stored lower-cased
	PasswordHash        string // argon2id PHC string, bcrypt accepted for imported accounts
	FailedLoginAttempts int
	BlockedUntil        *time.Time // nil when not blocked
	IsActive            bool
	Roles               []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NormalizeEmail is the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RecordFailedLogin counts a wrong password. Reaching the threshold blocks
// the account for BlockDuration. The counter keeps growing while blocked and
// is only reset by a successful login.
func (u *User) RecordFailedLogin(now time.Time) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		until := now.Add(BlockDuration)
		u.BlockedUntil = &until
	}
	u.UpdatedAt = now
}

// RecordSuccessfulLogin clears the failure counter and any block.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.BlockedUntil = nil
	u.UpdatedAt = now
}

// IsBlocked reports whether the account is blocked at now. The block ends
// exactly at BlockedUntil.
func (u *User) IsBlocked(now time.Time) bool {
	return u.BlockedUntil != nil && now.Before(*u.BlockedUntil)
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
