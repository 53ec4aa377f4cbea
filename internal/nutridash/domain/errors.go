package domain

import "errors"

// Dashboard errors.
var (
	ErrInvalidPosition          = errors.New("invalid widget position")
	ErrPositionOccupied         = errors.New("widget position already occupied")
	ErrDuplicateSingletonWidget = errors.New("dashboard already has a widget of this type")
	ErrWidgetNotFound           = errors.New("widget not found")
	ErrInvalidConfiguration     = errors.New("invalid widget configuration")
	ErrTooManyWidgets           = errors.New("dashboard widget limit reached")
	ErrShoppingListNotFound     = errors.New("dashboard has no shopping list")
	ErrShoppingListFull         = errors.New("shopping list is full")
	ErrDuplicateBarcode         = errors.New("barcode already on the shopping list")
)

// Identity errors.
var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account temporarily blocked")
	ErrAccountDisabled    = errors.New("account disabled")

	ErrNoActiveCode        = errors.New("no active two-factor code")
	ErrInvalidCode         = errors.New("invalid two-factor code")
	ErrCodeExpired         = errors.New("two-factor code expired")
	ErrCodeAlreadyUsed     = errors.New("two-factor code already used")
	ErrPendingAuthNotFound = errors.New("pending authentication not found or expired")
	ErrTooManyAttempts     = errors.New("too many two-factor attempts")
)

// IsRetryable reports whether a second-factor failure leaves the caller able
// to try again with the same pending authentication.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrNoActiveCode)
}
