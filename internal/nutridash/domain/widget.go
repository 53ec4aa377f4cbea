package domain

import "time"

// Widget is one configured cell of a dashboard grid. Widgets are created,
// moved and removed only through their Dashboard; values handed out by the
// dashboard are copies.
type Widget struct {
	ID          string
	DashboardID string
	Type        WidgetType
	Position    WidgetPosition
	Config      Configuration
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RestoreWidget rebuilds a persisted widget. The configuration must already
// have been decoded for the widget's type.
func RestoreWidget(
	id, dashboardID string,
	t WidgetType,
	pos WidgetPosition,
	cfg Configuration,
	createdAt, updatedAt time.Time,
) Widget {
	return Widget{
		ID:          id,
		DashboardID: dashboardID,
		Type:        t,
		Position:    pos,
		Config:      cfg,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// moveTo does not check occupancy; that is the dashboard's job.
func (w *Widget) moveTo(pos WidgetPosition, now time.Time) {
	w.Position = pos
	w.UpdatedAt = now
}

func (w *Widget) updateConfiguration(cfg Configuration, now time.Time) {
	w.Config = cfg
	w.UpdatedAt = now
}

func (w *Widget) copy() Widget {
	c := *w
	if w.Config != nil {
		c.Config = w.Config.clone()
	}
	return c
}
