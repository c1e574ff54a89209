package handler

import (
	"net/http"

	"github.com/donateraid/storefront-api/internal/checkout"
	"github.com/donateraid/storefront-api/internal/metrics"
)

// HandleCheckout submits the cart as a bulk order. The response tells the
// client whether to redirect to the payment page or show the order.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req checkout.Request
	if err := h.decodeAndValidate(w, r, &req, "Checkout"); err != nil {
		return
	}

	result, err := h.checkout.Submit(r.Context(), session, req)
	if err != nil {
		metrics.Checkouts.WithLabelValues("failed").Inc()
		respondServiceError(w, r, "Checkout", err)
		return
	}

	metrics.Checkouts.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusCreated, result)
}

// HandleGetOrder returns one order for the order-detail view.
func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	orderID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), session.AccessToken, orderID)
	if err != nil {
		respondServiceError(w, r, "Get order", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// HandleGetPaymentInfo returns the payment status of an order. The payment
// page polls this after redirecting back from the provider.
func (h *Handler) HandleGetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	orderID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	info, err := h.orders.GetPaymentInfo(r.Context(), session.AccessToken, orderID)
	if err != nil {
		respondServiceError(w, r, "Get payment info", err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
