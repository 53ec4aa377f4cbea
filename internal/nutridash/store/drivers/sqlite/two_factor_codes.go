package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
)

type twoFactorCodesRepo struct{ q queryer }

func (r *twoFactorCodesRepo) SaveTwoFactorCode(ctx context.Context, c domain.TwoFactorCode) error {
	// Only used_at ever changes after issue.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO two_factor_codes (id, user_id, code, expires_at, used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET used_at = excluded.used_at`,
		c.ID, c.UserID, c.Code, toMillis(c.ExpiresAt), toNullMillis(c.UsedAt), toMillis(c.CreatedAt),
	)
	return err
}

func (r *twoFactorCodesRepo) GetActiveTwoFactorCode(ctx context.Context, userID string, now time.Time) (domain.TwoFactorCode, error) {
	var (
		c                    domain.TwoFactorCode
		expiresAt, createdAt int64
		usedAt               sql.NullInt64
	)
	// expires_at >= now: a code is still valid at its exact expiry instant.
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, code, expires_at, used_at, created_at
		FROM two_factor_codes
		WHERE user_id = ? AND used_at IS NULL AND expires_at >= ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID, toMillis(now),
	).Scan(&c.ID, &c.UserID, &c.Code, &expiresAt, &usedAt, &createdAt)
	if err != nil {
		return domain.TwoFactorCode{}, mapNotFound(err)
	}

	c.ExpiresAt = fromMillis(expiresAt)
	c.UsedAt = fromNullMillis(usedAt)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func (r *twoFactorCodesRepo) DeleteExpiredTwoFactorCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM two_factor_codes WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
