package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Cart errors
	ErrMsgCartNotFound = "cart not found"
	ErrMsgCartCorrupt  = "cart data corrupt"
	ErrMsgCartEmpty    = "cart is empty"

	// Session errors
	ErrMsgSessionNotFound  = "session not found"
	ErrMsgNotAuthenticated = "not authenticated"

	// Checkout errors
	ErrMsgPaymentMethodRequired = "payment method required"
	ErrMsgTermsNotAccepted      = "terms must be accepted"
	ErrMsgGuestEmailRequired    = "guest email required"
	ErrMsgGuestEmailInvalid     = "guest email invalid"

	// Catalog errors
	ErrMsgGameNotFound    = "game not found"
	ErrMsgProductNotFound = "product not found"

	// Upstream errors
	ErrMsgBackendUnavailable = "backend unavailable"
	ErrMsgBackendRejected    = "backend rejected request"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Cart errors
	ErrCartNotFound = errors.New(ErrMsgCartNotFound)
	ErrCartCorrupt  = errors.New(ErrMsgCartCorrupt)
	ErrCartEmpty    = errors.New(ErrMsgCartEmpty)

	// Session errors
	ErrSessionNotFound  = errors.New(ErrMsgSessionNotFound)
	ErrNotAuthenticated = errors.New(ErrMsgNotAuthenticated)

	// Checkout validation errors, checked in order by the aggregator
	ErrPaymentMethodRequired = errors.New(ErrMsgPaymentMethodRequired)
	ErrTermsNotAccepted      = errors.New(ErrMsgTermsNotAccepted)
	ErrGuestEmailRequired    = errors.New(ErrMsgGuestEmailRequired)
	ErrGuestEmailInvalid     = errors.New(ErrMsgGuestEmailInvalid)

	// Catalog errors
	ErrGameNotFound    = errors.New(ErrMsgGameNotFound)
	ErrProductNotFound = errors.New(ErrMsgProductNotFound)

	// Upstream errors
	ErrBackendUnavailable = errors.New(ErrMsgBackendUnavailable)
	ErrBackendRejected    = errors.New(ErrMsgBackendRejected)
)
