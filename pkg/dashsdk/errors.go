package dashsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/nutridash/pkg/httpx"
)

// Error codes returned in the "error" field.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeServerError    = "server_error"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeConflict       = "conflict"
	ErrorCodeRateLimited    = "rate_limit_exceeded"
	ErrorCodeForbidden      = "insufficient_role"

	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountDisabled    = "account_disabled"
	ErrorCodeAccountBlocked     = "account_blocked"

	ErrorCodeInvalidCode          = "invalid_code"
	ErrorCodeNoActiveCode         = "no_active_code"
	ErrorCodeCodeExpired          = "code_expired"
	ErrorCodeCodeAlreadyUsed      = "code_already_used"
	ErrorCodePendingAuthNotFound  = "pending_auth_not_found"
	ErrorCodeTooManyAttempts      = "too_many_attempts"
	ErrorCodeInvalidPosition      = "invalid_position"
	ErrorCodeInvalidConfiguration = "invalid_configuration"
	ErrorCodePositionOccupied     = "position_occupied"
	ErrorCodeDuplicateSingleton   = "duplicate_singleton_widget"
	ErrorCodeWidgetNotFound       = "widget_not_found"
	ErrorCodeTooManyWidgets       = "too_many_widgets"
	ErrorCodeShoppingListNotFound = "shopping_list_not_found"
	ErrorCodeShoppingListFull     = "shopping_list_full"
	ErrorCodeDuplicateBarcode     = "duplicate_barcode"
	ErrorCodeEmailTaken           = "email_taken"
)

// IsRetryable reports whether err is a second-factor failure after which the
// same pending token may be used again.
func IsRetryable(err error) bool {
	var apiErr *httpx.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrorCodeInvalidCode || apiErr.Code == ErrorCodeNoActiveCode
}

// ErrorCode returns the API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// parseErrorResponse turns a non-2xx response into an *httpx.APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &httpx.APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &httpx.APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
