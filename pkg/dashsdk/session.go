package dashsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrSessionExpired is returned before any request is sent once the access
// token has expired. Sessions cannot be refreshed; log in again.
var ErrSessionExpired = errors.New("dashsdk: session expired")

// Session is an authenticated client bound to one access token.
type Session struct {
	client      *Client
	accessToken string
	expiresAt   time.Time
}

func (s *Session) AccessToken() string  { return s.accessToken }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return nil, ErrSessionExpired
	}
	return s.client.doRequest(ctx, method, path, s.accessToken, body)
}

func (s *Session) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, "/v1/dashboard", nil)
	if err != nil {
		return nil, err
	}
	var out DashboardResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddWidget places a widget. config is marshalled as the widget's
// configuration document; nil is allowed for the shopping list.
func (s *Session) AddWidget(ctx context.Context, widgetType string, row, column int, config any) (*WidgetResponse, error) {
	var raw json.RawMessage
	if config != nil {
		b, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode configuration: %w", err)
		}
		raw = b
	}
	return s.widgetCall(ctx, http.MethodPost, "/v1/dashboard/widgets",
		AddWidgetRequest{Type: widgetType, Row: row, Column: column, Configuration: raw}, http.StatusCreated)
}

func (s *Session) MoveWidget(ctx context.Context, widgetID string, row, column int) (*WidgetResponse, error) {
	return s.widgetCall(ctx, http.MethodPost, "/v1/dashboard/widgets/"+url.PathEscape(widgetID)+"/move",
		MoveWidgetRequest{Row: row, Column: column}, http.StatusOK)
}

func (s *Session) UpdateWidgetConfiguration(ctx context.Context, widgetID string, config any) (*WidgetResponse, error) {
	return s.widgetCall(ctx, http.MethodPut, "/v1/dashboard/widgets/"+url.PathEscape(widgetID)+"/configuration",
		config, http.StatusOK)
}

func (s *Session) RemoveWidget(ctx context.Context, widgetID string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/v1/dashboard/widgets/"+url.PathEscape(widgetID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) AddShoppingListItem(ctx context.Context, barcode string) (*WidgetResponse, error) {
	return s.widgetCall(ctx, http.MethodPost, "/v1/dashboard/shopping-list/items/"+url.PathEscape(barcode), nil, http.StatusOK)
}

func (s *Session) RemoveShoppingListItem(ctx context.Context, barcode string) (*WidgetResponse, error) {
	return s.widgetCall(ctx, http.MethodDelete, "/v1/dashboard/shopping-list/items/"+url.PathEscape(barcode), nil, http.StatusOK)
}

func (s *Session) ClearShoppingList(ctx context.Context) (*WidgetResponse, error) {
	return s.widgetCall(ctx, http.MethodDelete, "/v1/dashboard/shopping-list/items", nil, http.StatusOK)
}

func (s *Session) widgetCall(ctx context.Context, method, path string, body any, expected int) (*WidgetResponse, error) {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var out WidgetResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

// Admin operations. They require a token carrying the admin role.

func (s *Session) ListUsers(ctx context.Context, limit, offset int) (*UserListResponse, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))

	resp, err := s.do(ctx, http.MethodGet, "/v1/admin/users?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out UserListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	return s.userCall(ctx, http.MethodPost, "/v1/admin/users", req, http.StatusCreated)
}

func (s *Session) ToggleUserActive(ctx context.Context, userID string) (*UserResponse, error) {
	return s.userCall(ctx, http.MethodPost, "/v1/admin/users/"+url.PathEscape(userID)+"/toggle-active", nil, http.StatusOK)
}

func (s *Session) userCall(ctx context.Context, method, path string, body any, expected int) (*UserResponse, error) {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var out UserResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}
