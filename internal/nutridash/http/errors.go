package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/dashsdk"
	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

// errorMapping ties a sentinel error to the status and code clients see.
type errorMapping struct {
	err    error
	status int
	code   string
	desc   string
}

// errorMappings is checked in order with errors.Is; the first match wins.
var errorMappings = []errorMapping{
	// Password step. Unknown email and wrong password share one message.
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, dashsdk.ErrorCodeInvalidCredentials, "invalid email or password"},
	{domain.ErrAccountDisabled, http.StatusForbidden, dashsdk.ErrorCodeAccountDisabled, "this account is disabled"},
	{domain.ErrAccountBlocked, http.StatusLocked, dashsdk.ErrorCodeAccountBlocked, "too many failed attempts, try again later"},

	// Second factor: 400 may be retried, 410 means log in again.
	{domain.ErrInvalidCode, http.StatusBadRequest, dashsdk.ErrorCodeInvalidCode, "the code is not valid"},
	{domain.ErrNoActiveCode, http.StatusBadRequest, dashsdk.ErrorCodeNoActiveCode, "no active code, log in again to receive one"},
	{domain.ErrCodeExpired, http.StatusGone, dashsdk.ErrorCodeCodeExpired, "the code has expired"},
	{domain.ErrCodeAlreadyUsed, http.StatusGone, dashsdk.ErrorCodeCodeAlreadyUsed, "the code was already used"},
	{domain.ErrPendingAuthNotFound, http.StatusGone, dashsdk.ErrorCodePendingAuthNotFound, "unknown or expired login, log in again"},
	{domain.ErrTooManyAttempts, http.StatusGone, dashsdk.ErrorCodeTooManyAttempts, "too many wrong codes, log in again"},

	// Dashboard.
	{domain.ErrInvalidPosition, http.StatusBadRequest, dashsdk.ErrorCodeInvalidPosition, ""},
	{domain.ErrInvalidConfiguration, http.StatusBadRequest, dashsdk.ErrorCodeInvalidConfiguration, ""},
	{domain.ErrTooManyWidgets, http.StatusUnprocessableEntity, dashsdk.ErrorCodeTooManyWidgets, ""},
	{domain.ErrPositionOccupied, http.StatusConflict, dashsdk.ErrorCodePositionOccupied, ""},
	{domain.ErrDuplicateSingletonWidget, http.StatusConflict, dashsdk.ErrorCodeDuplicateSingleton, ""},
	{domain.ErrShoppingListFull, http.StatusConflict, dashsdk.ErrorCodeShoppingListFull, ""},
	{domain.ErrDuplicateBarcode, http.StatusConflict, dashsdk.ErrorCodeDuplicateBarcode, ""},
	{domain.ErrWidgetNotFound, http.StatusNotFound, dashsdk.ErrorCodeWidgetNotFound, ""},
	{domain.ErrShoppingListNotFound, http.StatusNotFound, dashsdk.ErrorCodeShoppingListNotFound, ""},

	// Accounts.
	{service.ErrInvalidEmail, http.StatusBadRequest, dashsdk.ErrorCodeInvalidRequest, ""},
	{service.ErrPasswordTooShort, http.StatusBadRequest, dashsdk.ErrorCodeInvalidRequest, ""},
	{service.ErrToggleSelf, http.StatusBadRequest, dashsdk.ErrorCodeInvalidRequest, ""},
	{service.ErrEmailTaken, http.StatusConflict, dashsdk.ErrorCodeEmailTaken, ""},

	// Infrastructure.
	{store.ErrNotFound, http.StatusNotFound, dashsdk.ErrorCodeNotFound, "resource not found"},
	{store.ErrConflict, http.StatusConflict, dashsdk.ErrorCodeConflict, "the dashboard was changed concurrently, retry"},
	{lock.ErrLockTimeout, http.StatusServiceUnavailable, dashsdk.ErrorCodeServerError, "the service is busy, retry"},
}

var errServer = &httpx.APIError{
	StatusCode:  http.StatusInternalServerError,
	Code:        dashsdk.ErrorCodeServerError,
	Description: "internal server error",
}

// apiError maps err to its API form. Unknown errors become a 500 without
// leaking their text.
func apiError(err error) *httpx.APIError {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			desc := m.desc
			if desc == "" {
				desc = err.Error()
			}
			return &httpx.APIError{StatusCode: m.status, Code: m.code, Description: desc}
		}
	}
	return errServer
}

// writeServiceError logs err at a level matching its status and writes it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	e := apiError(err)
	l := slogx.FromContext(r.Context())
	if e.StatusCode >= http.StatusInternalServerError {
		l.Error("request failed", "err", err)
	} else {
		l.Info("request rejected", "code", e.Code, "err", err)
	}
	httpx.WriteError(w, e)
}
