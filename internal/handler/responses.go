package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/donateraid/storefront-api/internal/backend"
	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// bufferPool reduces allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing to do but log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs the failure and translates it for the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error(opName+" failed", "error", err)
	status, message := mapServiceErrorToUserMessage(err)
	respondError(w, status, message)
}

// User-facing messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "The platform is temporarily unavailable. Please try again later."

	ErrMsgCartEmpty     = "Your cart is empty"
	ErrMsgNotLoggedIn   = "You need to log in first"
	ErrMsgGameNotFound  = "Game not found"
	ErrMsgOrderNotFound = "Order not found"

	ErrMsgPaymentMethodRequired = "Choose a payment method"
	ErrMsgTermsNotAccepted      = "You must accept the terms of service"
	ErrMsgGuestEmailRequired    = "Email is required for guest checkout"
	ErrMsgGuestEmailInvalid     = "That email address does not look right"
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages a buyer can act on. A platform rejection keeps the platform's own
// message so the real reason reaches the user.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, apiErr.Detail
	}

	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusBadRequest, ErrMsgCartEmpty
	case errors.Is(err, domain.ErrPaymentMethodRequired):
		return http.StatusBadRequest, ErrMsgPaymentMethodRequired
	case errors.Is(err, domain.ErrTermsNotAccepted):
		return http.StatusBadRequest, ErrMsgTermsNotAccepted
	case errors.Is(err, domain.ErrGuestEmailRequired):
		return http.StatusBadRequest, ErrMsgGuestEmailRequired
	case errors.Is(err, domain.ErrGuestEmailInvalid):
		return http.StatusBadRequest, ErrMsgGuestEmailInvalid
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, ErrMsgNotLoggedIn
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound, ErrMsgGameNotFound
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, ErrMsgGameNotFound
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrBackendRejected):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
