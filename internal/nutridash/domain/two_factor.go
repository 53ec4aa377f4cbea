package domain

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

const (
	TwoFactorCodeLength = 6
	TwoFactorCodeTTL    = 10 * time.Minute
)

// TwoFactorCode is an emailed one-time code. It can be consumed once and
// only until ExpiresAt.
type TwoFactorCode struct {
	ID        string
	UserID    string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewTwoFactorCode draws a fresh uniformly random 6 digit code for userID.
// Leading zeros are kept.
func NewTwoFactorCode(userID string, now time.Time) (TwoFactorCode, error) {
	code, err := cryptox.RandomDigits(TwoFactorCodeLength)
	if err != nil {
		return TwoFactorCode{}, fmt.Errorf("generate two-factor code: %w", err)
	}
	return TwoFactorCode{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(TwoFactorCodeTTL),
		CreatedAt: now,
	}, nil
}

// IsExpired is true strictly after ExpiresAt.
func (c *TwoFactorCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *TwoFactorCode) IsUsed() bool {
	return c.UsedAt != nil
}

// Validate consumes the code when input matches. Expiry is checked before
// reuse, and both are checked before the comparison. A mismatch returns
// false without consuming the code.
func (c *TwoFactorCode) Validate(input string, now time.Time) (bool, error) {
	if c.IsExpired(now) {
		return false, ErrCodeExpired
	}
	if c.IsUsed() {
		return false, ErrCodeAlreadyUsed
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(input)) != 1 {
		return false, nil
	}

	used := now
	c.UsedAt = &used
	return true, nil
}
