package dashsdk

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned with 202 Accepted once the password step passed
// and a code was emailed.
type LoginResponse struct {
	TwoFactorRequired bool      `json:"two_factor_required"`
	PendingToken      string    `json:"pending_token"`
	ExpiresAt         time.Time `json:"expires_at"`
}

type TwoFactorRequest struct {
	PendingToken string `json:"pending_token"`
	Code         string `json:"code"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type PositionResponse struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type WidgetResponse struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Position      PositionResponse `json:"position"`
	Configuration json.RawMessage  `json:"configuration" swaggertype:"object"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type DashboardResponse struct {
	ID        string           `json:"id"`
	Widgets   []WidgetResponse `json:"widgets"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type AddWidgetRequest struct {
	Type          string          `json:"type"`
	Row           int             `json:"row"`
	Column        int             `json:"column"`
	Configuration json.RawMessage `json:"configuration,omitempty" swaggertype:"object"`
}

type MoveWidgetRequest struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type UserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	IsActive            bool       `json:"is_active"`
	Roles               []string   `json:"roles"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	BlockedUntil        *time.Time `json:"blocked_until,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is only filled in by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the key set served at /.well-known/jwks.json.
type JWKSResponse = jwtx.JWKS

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
