package http

import (
	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/pkg/dashsdk"
)

func toWidgetResponse(w domain.Widget) (dashsdk.WidgetResponse, error) {
	raw, err := domain.EncodeConfiguration(w.Config)
	if err != nil {
		return dashsdk.WidgetResponse{}, err
	}
	return dashsdk.WidgetResponse{
		ID:            w.ID,
		Type:          string(w.Type),
		Position:      dashsdk.PositionResponse{Row: w.Position.Row, Column: w.Position.Column},
		Configuration: raw,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}, nil
}

func toDashboardResponse(d *domain.Dashboard) (dashsdk.DashboardResponse, error) {
	widgets := d.Widgets()
	out := dashsdk.DashboardResponse{
		ID:        d.ID,
		Widgets:   make([]dashsdk.WidgetResponse, 0, len(widgets)),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, w := range widgets {
		wr, err := toWidgetResponse(w)
		if err != nil {
			return dashsdk.DashboardResponse{}, err
		}
		out.Widgets = append(out.Widgets, wr)
	}
	return out, nil
}

func toUserResponse(u domain.User) dashsdk.UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return dashsdk.UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		IsActive:            u.IsActive,
		Roles:               roles,
		FailedLoginAttempts: u.FailedLoginAttempts,
		BlockedUntil:        u.BlockedUntil,
		CreatedAt:           u.CreatedAt,
	}
}
