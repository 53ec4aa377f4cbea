package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
)

type dashboardsRepo struct {
	q queryer

	// db is set when the repo is not already inside a transaction, so
	// SaveDashboard can open its own.
	db *sql.DB
}

func (r *dashboardsRepo) GetDashboardByUserID(ctx context.Context, userID string) (*domain.Dashboard, error) {
	return r.load(ctx, `WHERE user_id = ?`, userID)
}

func (r *dashboardsRepo) GetDashboardByID(ctx context.Context, id string) (*domain.Dashboard, error) {
	return r.load(ctx, `WHERE id = ?`, id)
}

func (r *dashboardsRepo) load(ctx context.Context, where string, arg string) (*domain.Dashboard, error) {
	var (
		id, userID           string
		version              int64
		createdAt, updatedAt int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, version, created_at, updated_at FROM dashboards `+where, arg,
	).Scan(&id, &userID, &version, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}

	widgets, err := r.loadWidgets(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := domain.RestoreDashboard(id, userID, fromMillis(createdAt), fromMillis(updatedAt), version, widgets)
	if err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", id, err)
	}
	return d, nil
}

func (r *dashboardsRepo) loadWidgets(ctx context.Context, dashboardID string) ([]domain.Widget, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, type, row_index, column_index, configuration, created_at, updated_at
		FROM widgets WHERE dashboard_id = ?
		ORDER BY row_index, column_index`, dashboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Widget
	for rows.Next() {
		var (
			id, rawType, rawConfig string
			row, column            int
			createdAt, updatedAt   int64
		)
		if err := rows.Scan(&id, &rawType, &row, &column, &rawConfig, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		t, err := domain.ParseWidgetType(rawType)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", id, err)
		}
		pos, err := domain.NewWidgetPosition(row, column)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", id, err)
		}
		cfg, err := domain.DecodeConfiguration(t, []byte(rawConfig))
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", id, err)
		}

		out = append(out, domain.RestoreWidget(id, dashboardID, t, pos, cfg, fromMillis(createdAt), fromMillis(updatedAt)))
	}
	return out, rows.Err()
}

func (r *dashboardsRepo) SaveDashboard(ctx context.Context, d *domain.Dashboard) error {
	if r.db == nil {
		return r.save(ctx, r.q, d)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	prev := d.Version
	if err := r.save(ctx, tx, d); err != nil {
		d.Version = prev
		return err
	}
	if err := tx.Commit(); err != nil {
		d.Version = prev
		return err
	}
	return nil
}

func (r *dashboardsRepo) save(ctx context.Context, q queryer, d *domain.Dashboard) error {
	next := d.Version + 1

	if d.Version == 0 {
		_, err := q.ExecContext(ctx, `
			INSERT INTO dashboards (id, user_id, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.UserID, next, toMillis(d.CreatedAt), toMillis(d.UpdatedAt),
		)
		if isUniqueViolation(err) {
			// Someone else created this user's dashboard first.
			return fmt.Errorf("dashboard for user %s: %w", d.UserID, store.ErrConflict)
		}
		if err != nil {
			return err
		}
	} else {
		res, err := q.ExecContext(ctx, `
			UPDATE dashboards SET version = ?, updated_at = ?
			WHERE id = ? AND version = ?`,
			next, toMillis(d.UpdatedAt), d.ID, d.Version,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("dashboard %s at version %d: %w", d.ID, d.Version, store.ErrConflict)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM widgets WHERE dashboard_id = ?`, d.ID); err != nil {
		return err
	}
	for _, w := range d.Widgets() {
		raw, err := domain.EncodeConfiguration(w.Config)
		if err != nil {
			return fmt.Errorf("widget %s: %w", w.ID, err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO widgets (id, dashboard_id, type, row_index, column_index, configuration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID, d.ID, string(w.Type), w.Position.Row, w.Position.Column, string(raw),
			toMillis(w.CreatedAt), toMillis(w.UpdatedAt),
		); err != nil {
			return err
		}
	}

	d.Version = next
	return nil
}
