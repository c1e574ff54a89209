package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/checkout"
	"github.com/donateraid/storefront-api/internal/domain"
)

func fillTestCart(t *testing.T, h *Handler) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(addItemsBody()))
	w := httptest.NewRecorder()
	h.HandleAddItems(w, withSession(req, guestSession()))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleCheckout_GuestSuccess(t *testing.T) {
	platform := &fakePlatform{order: &domain.Order{ID: 42, PaymentURL: "https://pay.example/42"}}
	h := newTestHandler(platform)
	fillTestCart(t, h)

	body := `{"payment_method":"card","terms_accepted":true,"guest_email":"a@b.co"}`
	req := httptest.NewRequest("POST", "/api/v1/cart/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleCheckout(w, withSession(req, guestSession()))

	require.Equal(t, http.StatusCreated, w.Code)
	var result checkout.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, checkout.StateRedirecting, result.State)
	assert.Equal(t, "https://pay.example/42", result.PaymentURL)
	assert.Equal(t, 1, platform.guestCalls)
	assert.Equal(t, "a@b.co", platform.lastGuest.Email)
}

func TestHandleCheckout_InvalidGuestEmail(t *testing.T) {
	platform := &fakePlatform{order: &domain.Order{ID: 42}}
	h := newTestHandler(platform)
	fillTestCart(t, h)

	body := `{"payment_method":"card","terms_accepted":true,"guest_email":"not-an-email"}`
	req := httptest.NewRequest("POST", "/api/v1/cart/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleCheckout(w, withSession(req, guestSession()))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgGuestEmailInvalid)
	assert.Zero(t, platform.guestCalls)
}

func TestHandleCheckout_FailureKeepsCart(t *testing.T) {
	platform := &fakePlatform{orderErr: domain.ErrBackendUnavailable}
	h := newTestHandler(platform)
	fillTestCart(t, h)

	body := `{"payment_method":"ton","terms_accepted":true,"guest_email":"a@b.co"}`
	req := httptest.NewRequest("POST", "/api/v1/cart/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleCheckout(w, withSession(req, guestSession()))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	get := withSession(httptest.NewRequest("GET", "/api/v1/cart", nil), guestSession())
	w = httptest.NewRecorder()
	h.HandleGetCart(w, get)
	assert.Contains(t, w.Body.String(), `"total_count":3`)
}

func TestHandleGetOrder(t *testing.T) {
	platform := &fakePlatform{order: &domain.Order{ID: 17, Status: domain.OrderStatusPaid}}
	h := newTestHandler(platform)

	req := withSession(httptest.NewRequest("GET", "/api/v1/orders/17", nil), guestSession())
	req = withURLParam(req, "id", "17")
	w := httptest.NewRecorder()

	h.HandleGetOrder(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paid"`)
}
