package domain

import (
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

// Failure reasons recorded on login attempts.
const (
	ReasonUserNotFound    = "user_not_found"
	ReasonAccountDisabled = "account_disabled"
	ReasonAccountBlocked  = "account_blocked"
	ReasonInvalidPassword = "invalid_password"
)

// LoginAttempt is an append-only audit record of the password step.
type LoginAttempt struct {
	ID          string
	Email       string
	Success     bool
	IPAddress   string
	Reason      string // empty on success
	AttemptedAt time.Time
}

func NewLoginAttempt(email, ip string, success bool, reason string, now time.Time) LoginAttempt {
	return LoginAttempt{
		ID:          idx.NewAt(now).String(),
		Email:       NormalizeEmail(email),
		Success:     success,
		IPAddress:   ip,
		Reason:      reason,
		AttemptedAt: now,
	}
}
