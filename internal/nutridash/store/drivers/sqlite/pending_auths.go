package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
)

type pendingAuthsRepo struct{ q queryer }

func (r *pendingAuthsRepo) CreatePendingAuth(ctx context.Context, p domain.PendingAuth) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO pending_auths (id, token_hash, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.TokenHash, p.UserID, toMillis(p.ExpiresAt), toMillis(p.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *pendingAuthsRepo) GetPendingAuthByTokenHash(ctx context.Context, tokenHash string) (domain.PendingAuth, error) {
	var (
		p                    domain.PendingAuth
		expiresAt, createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, token_hash, user_id, attempts, expires_at, created_at
		FROM pending_auths WHERE token_hash = ?`, tokenHash,
	).Scan(&p.ID, &p.TokenHash, &p.UserID, &p.Attempts, &expiresAt, &createdAt)
	if err != nil {
		return domain.PendingAuth{}, mapNotFound(err)
	}
	p.ExpiresAt = fromMillis(expiresAt)
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

func (r *pendingAuthsRepo) IncrementPendingAuthAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.q.QueryRowContext(ctx, `
		UPDATE pending_auths SET attempts = attempts + 1
		WHERE id = ? RETURNING attempts`, id,
	).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *pendingAuthsRepo) DeletePendingAuth(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM pending_auths WHERE id = ?`, id)
	return err
}

func (r *pendingAuthsRepo) DeletePendingAuthsByUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM pending_auths WHERE user_id = ?`, userID)
	return err
}

func (r *pendingAuthsRepo) DeleteExpiredPendingAuths(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pending_auths WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
