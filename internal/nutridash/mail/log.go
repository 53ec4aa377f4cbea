package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

// LogMailer writes codes to the log instead of sending them. Used in
// development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendTwoFactorCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	slogx.FromContext(ctx).Warn("two-factor code not emailed, no smtp relay configured",
		slog.String("email", email),
		slog.String("code", code),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}
