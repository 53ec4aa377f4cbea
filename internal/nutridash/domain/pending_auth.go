package domain

import (
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

// MaxTwoFactorAttempts caps how many codes may be tried against one pending
// authentication.
const MaxTwoFactorAttempts = 5

// PendingAuth links a client to a user between the password step and the
// second factor. Only the fingerprint of the client's token is stored.
type PendingAuth struct {
	ID        string
	TokenHash string
	UserID    string
	Attempts  int
	ExpiresAt time.Time // matches the code it was issued with
	CreatedAt time.Time
}

// NewPendingAuth returns the record to persist and the raw token to hand to
// the client.
func NewPendingAuth(code TwoFactorCode, now time.Time) (PendingAuth, string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return PendingAuth{}, "", err
	}
	return PendingAuth{
		ID:        idx.NewAt(now).String(),
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    code.UserID,
		ExpiresAt: code.ExpiresAt,
		CreatedAt: now,
	}, token, nil
}

func (p *PendingAuth) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
