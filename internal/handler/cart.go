package handler

import (
	"net/http"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/metrics"
)

// CartResponse is the cart as the browser renders it.
type CartResponse struct {
	Items      []domain.CartLineItem `json:"items"`
	TotalCount int                   `json:"total_count"`
	TotalPrice float64               `json:"total_price"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return CartResponse{
		Items:      items,
		TotalCount: cart.TotalCount(),
		TotalPrice: cart.TotalPrice(),
	}
}

// AddItemsRequest adds one or more items to the cart in one call.
type AddItemsRequest struct {
	Items []domain.CartLineItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuantityRequest sets the quantity of one line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the session's cart.
func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	cart, err := h.carts.Get(r.Context(), session.ID)
	if err != nil {
		respondServiceError(w, r, "Get cart", err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// HandleAddItems merges items into the cart. Items that match an existing
// line raise its quantity rather than adding a duplicate.
func (h *Handler) HandleAddItems(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req AddItemsRequest
	if err := h.decodeAndValidate(w, r, &req, "Add cart items"); err != nil {
		return
	}

	cart, err := h.carts.AddItems(r.Context(), session.ID, req.Items)
	if err != nil {
		respondServiceError(w, r, "Add cart items", err)
		return
	}

	metrics.CartMutations.WithLabelValues("add").Inc()
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// HandleRemoveItem deletes the line at the index in the path. An out-of-range
// index is a no-op, mirroring how the store treats it.
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), session.ID, index)
	if err != nil {
		respondServiceError(w, r, "Remove cart item", err)
		return
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// HandleUpdateQuantity sets the quantity of the line at the index in the
// path; zero or less removes the line.
func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := h.decodeAndValidate(w, r, &req, "Update cart quantity"); err != nil {
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), session.ID, index, req.Quantity)
	if err != nil {
		respondServiceError(w, r, "Update cart quantity", err)
		return
	}

	metrics.CartMutations.WithLabelValues("update_quantity").Inc()
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// HandleClearCart empties the cart.
func (h *Handler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	if err := h.carts.Clear(r.Context(), session.ID); err != nil {
		respondServiceError(w, r, "Clear cart", err)
		return
	}

	metrics.CartMutations.WithLabelValues("clear").Inc()
	respondJSON(w, http.StatusOK, newCartResponse(&domain.Cart{}))
}
