package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

const (
	// DefaultMaxWidgets caps the number of widgets on one dashboard.
	DefaultMaxWidgets = 10

	// saveAttempts bounds how often a mutation is replayed after losing a
	// version race to another writer.
	saveAttempts = 3
)

// errUnchanged lets a mutation report that nothing needs saving.
var errUnchanged = errors.New("dashboard unchanged")

type AddWidgetRequest struct {
	Type          string
	Row           int
	Column        int
	Configuration json.RawMessage
}

// DashboardService applies widget operations to a user's dashboard. The
// dashboard is created on first use.
type DashboardService struct {
	Store      store.Store
	Locker     lock.Locker
	Clock      Clock
	MaxWidgets int
}

// GetDashboard returns the user's dashboard, creating and persisting an
// empty one if there is none yet.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	d, err := s.Store.Dashboards().GetDashboardByUserID(ctx, userID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	d = domain.NewDashboard(userID, nowFrom(s.Clock))
	err = s.Store.Dashboards().SaveDashboard(ctx, d)
	if errors.Is(err, store.ErrConflict) {
		// Someone else created it first.
		return s.Store.Dashboards().GetDashboardByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("create dashboard: %w", err)
	}
	return d, nil
}

func (s *DashboardService) AddWidget(ctx context.Context, userID string, req AddWidgetRequest) (domain.Widget, error) {
	t, err := domain.ParseWidgetType(req.Type)
	if err != nil {
		return domain.Widget{}, err
	}
	cfg, err := domain.DecodeConfiguration(t, req.Configuration)
	if err != nil {
		return domain.Widget{}, err
	}

	var added domain.Widget
	_, err = s.mutate(ctx, userID, func(d *domain.Dashboard, now time.Time) error {
		if d.WidgetCount() >= s.maxWidgets() {
			return fmt.Errorf("%w: at most %d widgets", domain.ErrTooManyWidgets, s.maxWidgets())
		}
		added, err = d.AddWidget(t, req.Row, req.Column, cfg, now)
		return err
	})
	if err != nil {
		return domain.Widget{}, err
	}
	return added, nil
}

func (s *DashboardService) MoveWidget(ctx context.Context, userID, widgetID string, row, column int) (domain.Widget, error) {
	d, err := s.mutate(ctx, userID, func(d *domain.Dashboard, now time.Time) error {
		return d.MoveWidget(widgetID, row, column, now)
	})
	if err != nil {
		return domain.Widget{}, err
	}
	return d.Widget(widgetID)
}

func (s *DashboardService) RemoveWidget(ctx context.Context, userID, widgetID string) error {
	_, err := s.mutate(ctx, userID, func(d *domain.Dashboard, now time.Time) error {
		return d.RemoveWidget(widgetID, now)
	})
	return err
}

// UpdateWidgetConfiguration decodes raw against the widget's own type and
// replaces its configuration.
func (s *DashboardService) UpdateWidgetConfiguration(ctx context.Context, userID, widgetID string, raw json.RawMessage) (domain.Widget, error) {
	d, err := s.mutate(ctx, userID, func(d *domain.Dashboard, now time.Time) error {
		w, err := d.Widget(widgetID)
		if err != nil {
			return err
		}
		cfg, err := domain.DecodeConfiguration(w.Type, raw)
		if err != nil {
			return err
		}
		return d.UpdateWidgetConfiguration(widgetID, cfg, now)
	})
	if err != nil {
		return domain.Widget{}, err
	}
	return d.Widget(widgetID)
}

// AddShoppingListItem appends barcode to the dashboard's shopping list.
func (s *DashboardService) AddShoppingListItem(ctx context.Context, userID, barcode string) (domain.Widget, error) {
	if err := domain.ValidateBarcode(barcode); err != nil {
		return domain.Widget{}, err
	}
	return s.updateShoppingList(ctx, userID, func(items []string) ([]string, error) {
		if slices.Contains(items, barcode) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateBarcode, barcode)
		}
		if len(items) >= domain.MaxShoppingListBarcodes {
			return nil, fmt.Errorf("%w: at most %d items", domain.ErrShoppingListFull, domain.MaxShoppingListBarcodes)
		}
		return append(items, barcode), nil
	})
}

// RemoveShoppingListItem drops barcode from the shopping list. Removing a
// barcode that is not on the list succeeds without changes.
func (s *DashboardService) RemoveShoppingListItem(ctx context.Context, userID, barcode string) (domain.Widget, error) {
	return s.updateShoppingList(ctx, userID, func(items []string) ([]string, error) {
		i := slices.Index(items, barcode)
		if i < 0 {
			return nil, errUnchanged
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func (s *DashboardService) ClearShoppingList(ctx context.Context, userID string) (domain.Widget, error) {
	return s.updateShoppingList(ctx, userID, func(items []string) ([]string, error) {
		if len(items) == 0 {
			return nil, errUnchanged
		}
		return nil, nil
	})
}

func (s *DashboardService) updateShoppingList(
	ctx context.Context,
	userID string,
	edit func(items []string) ([]string, error),
) (domain.Widget, error) {
	var id string
	d, err := s.mutate(ctx, userID, func(d *domain.Dashboard, now time.Time) error {
		list, ok := d.ShoppingList()
		if !ok {
			return domain.ErrShoppingListNotFound
		}
		id = list.ID

		items, err := edit(list.Config.Barcodes())
		if err != nil {
			return err
		}
		return d.UpdateWidgetConfiguration(id, domain.ShoppingListConfig{Items: items}, now)
	})
	if err != nil {
		return domain.Widget{}, err
	}
	return d.Widget(id)
}

// mutate loads the user's dashboard (a fresh one if none is stored), applies
// fn and saves. A lost version race replays fn on the newer copy.
func (s *DashboardService) mutate(
	ctx context.Context,
	userID string,
	fn func(d *domain.Dashboard, now time.Time) error,
) (*domain.Dashboard, error) {
	unlock, err := s.Locker.Lock(ctx, lock.Key("dashboard", userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		now := nowFrom(s.Clock)

		d, err := s.Store.Dashboards().GetDashboardByUserID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			d = domain.NewDashboard(userID, now)
		} else if err != nil {
			return nil, fmt.Errorf("load dashboard: %w", err)
		}

		if err := fn(d, now); err != nil {
			if errors.Is(err, errUnchanged) {
				return d, nil
			}
			return nil, err
		}

		err = s.Store.Dashboards().SaveDashboard(ctx, d)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, store.ErrConflict) || attempt >= saveAttempts {
			return nil, fmt.Errorf("save dashboard: %w", err)
		}
		slogx.FromContext(ctx).Debug("dashboard version conflict, retrying", "user_id", userID, "attempt", attempt)
	}
}

func (s *DashboardService) maxWidgets() int {
	if s.MaxWidgets <= 0 {
		return DefaultMaxWidgets
	}
	return s.MaxWidgets
}
