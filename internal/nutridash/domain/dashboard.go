package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

// Dashboard is the per-user widget grid. It guarantees that no two widgets
// share a position and that singleton widget types appear at most once.
type Dashboard struct {
	ID        string
	UserID    string // one dashboard per user
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is bumped by the store on every successful save and is used to
	// detect concurrent writers.
	Version int64

	widgets map[string]*Widget
}

// NewDashboard creates an empty dashboard for userID.
func NewDashboard(userID string, now time.Time) *Dashboard {
	return &Dashboard{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		widgets:   make(map[string]*Widget),
	}
}

// RestoreDashboard rebuilds a persisted dashboard and its widgets. It refuses
// data that breaks the grid invariants.
func RestoreDashboard(
	id, userID string,
	createdAt, updatedAt time.Time,
	version int64,
	widgets []Widget,
) (*Dashboard, error) {
	d := &Dashboard{
		ID:        id,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Version:   version,
		widgets:   make(map[string]*Widget, len(widgets)),
	}
	for i := range widgets {
		w := widgets[i]
		if err := d.checkPlacement(w.Type, w.Position, ""); err != nil {
			return nil, fmt.Errorf("restore widget %s: %w", w.ID, err)
		}
		w.DashboardID = id
		d.widgets[w.ID] = &w
	}
	return d, nil
}

// AddWidget places a new widget of type t at (row, column). Checks run in a
// fixed order: position validity, configuration, singleton, occupancy. The
// dashboard is left unchanged when any of them fails.
func (d *Dashboard) AddWidget(t WidgetType, row, column int, cfg Configuration, now time.Time) (Widget, error) {
	pos, err := NewWidgetPosition(row, column)
	if err != nil {
		return Widget{}, err
	}
	if cfg == nil || cfg.Type() != t {
		return Widget{}, fmt.Errorf("%w: configuration does not match widget type %q", ErrInvalidConfiguration, t)
	}
	if err := d.checkPlacement(t, pos, ""); err != nil {
		return Widget{}, err
	}

	w := &Widget{
		ID:          idx.NewAt(now).String(),
		DashboardID: d.ID,
		Type:        t,
		Position:    pos,
		Config:      cfg.clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	d.widgets[w.ID] = w
	d.UpdatedAt = now

	return w.copy(), nil
}

// RemoveWidget deletes the widget with the given id.
func (d *Dashboard) RemoveWidget(id string, now time.Time) error {
	if _, ok := d.widgets[id]; !ok {
		return ErrWidgetNotFound
	}
	delete(d.widgets, id)
	d.UpdatedAt = now
	return nil
}

// MoveWidget moves a widget to (row, column). Moving a widget onto its own
// cell is allowed and only bumps the timestamps.
func (d *Dashboard) MoveWidget(id string, row, column int, now time.Time) error {
	w, ok := d.widgets[id]
	if !ok {
		return ErrWidgetNotFound
	}
	pos, err := NewWidgetPosition(row, column)
	if err != nil {
		return err
	}
	if other := d.occupant(pos, id); other != nil {
		return fmt.Errorf("%w: %s is taken by widget %s", ErrPositionOccupied, pos, other.ID)
	}

	w.moveTo(pos, now)
	d.UpdatedAt = now
	return nil
}

// UpdateWidgetConfiguration replaces a widget's configuration. The new
// configuration must be of the widget's own type.
func (d *Dashboard) UpdateWidgetConfiguration(id string, cfg Configuration, now time.Time) error {
	w, ok := d.widgets[id]
	if !ok {
		return ErrWidgetNotFound
	}
	if cfg == nil || cfg.Type() != w.Type {
		return fmt.Errorf("%w: configuration does not match widget type %q", ErrInvalidConfiguration, w.Type)
	}

	w.updateConfiguration(cfg.clone(), now)
	d.UpdatedAt = now
	return nil
}

// Widget returns a copy of the widget with the given id.
func (d *Dashboard) Widget(id string) (Widget, error) {
	w, ok := d.widgets[id]
	if !ok {
		return Widget{}, ErrWidgetNotFound
	}
	return w.copy(), nil
}

// Widgets returns copies of all widgets ordered by row, then column.
func (d *Dashboard) Widgets() []Widget {
	out := make([]Widget, 0, len(d.widgets))
	for _, w := range d.widgets {
		out = append(out, w.copy())
	}
	slices.SortFunc(out, func(a, b Widget) int {
		if c := cmp.Compare(a.Position.Row, b.Position.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Position.Column, b.Position.Column)
	})
	return out
}

func (d *Dashboard) WidgetCount() int { return len(d.widgets) }

// ShoppingList returns the dashboard's shopping-list widget, if any.
func (d *Dashboard) ShoppingList() (Widget, bool) {
	for _, w := range d.widgets {
		if w.Type == WidgetShoppingList {
			return w.copy(), true
		}
	}
	return Widget{}, false
}

// checkPlacement runs the singleton and occupancy checks for a widget of
// type t at pos, ignoring the widget with id exclude.
func (d *Dashboard) checkPlacement(t WidgetType, pos WidgetPosition, exclude string) error {
	if t.IsSingleton() {
		for _, w := range d.widgets {
			if w.ID != exclude && w.Type == t {
				return fmt.Errorf("%w: %s", ErrDuplicateSingletonWidget, t)
			}
		}
	}
	if other := d.occupant(pos, exclude); other != nil {
		return fmt.Errorf("%w: %s is taken by widget %s", ErrPositionOccupied, pos, other.ID)
	}
	return nil
}

func (d *Dashboard) occupant(pos WidgetPosition, exclude string) *Widget {
	for _, w := range d.widgets {
		if w.ID != exclude && w.Position.Equals(pos) {
			return w
		}
	}
	return nil
}
