package sqlite

import (
	"context"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
)

type loginAttemptsRepo struct{ q queryer }

func (r *loginAttemptsRepo) CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO login_attempts (id, email, success, ip_address, reason, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, boolToInt(a.Success), a.IPAddress, a.Reason, toMillis(a.AttemptedAt),
	)
	return err
}

func (r *loginAttemptsRepo) ListLoginAttemptsByEmail(ctx context.Context, email string, limit int) ([]domain.LoginAttempt, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, email, success, ip_address, reason, attempted_at
		FROM login_attempts
		WHERE email = ?
		ORDER BY attempted_at DESC, id DESC
		LIMIT ?`,
		email, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LoginAttempt
	for rows.Next() {
		var (
			a       domain.LoginAttempt
			success int
			at      int64
		)
		if err := rows.Scan(&a.ID, &a.Email, &success, &a.IPAddress, &a.Reason, &at); err != nil {
			return nil, err
		}
		a.Success = success != 0
		a.AttemptedAt = fromMillis(at)
		out = append(out, a)
	}
	return out, rows.Err()
}
