package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/donateraid/storefront-api/internal/domain"
)

// BulkOrderRequest creates one order per item for an authenticated account.
type BulkOrderRequest struct {
	Items []domain.OrderItem `json:"items"`
}

// GuestBulkOrderRequest is the unauthenticated variant, keyed by email.
type GuestBulkOrderRequest struct {
	Email string             `json:"email"`
	Name  string             `json:"name,omitempty"`
	Items []domain.OrderItem `json:"items"`
}

// PaymentInfo is the payment state of an order as the platform reports it.
type PaymentInfo struct {
	OrderID    int                `json:"order_id"`
	Status     domain.OrderStatus `json:"status"`
	PaymentURL string             `json:"payment_url,omitempty"`
}

// CreateBulkOrder submits the cart as an authenticated bulk order. The
// platform responds with the first created order, which carries the payment
// URL when one applies.
func (c *Client) CreateBulkOrder(ctx context.Context, token string, req BulkOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders/bulk", token, req, &order); err != nil {
		return nil, fmt.Errorf("create bulk order: %w", err)
	}
	return &order, nil
}

// CreateGuestBulkOrder submits the cart without an account.
func (c *Client) CreateGuestBulkOrder(ctx context.Context, req GuestBulkOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders/guest/bulk", "", req, &order); err != nil {
		return nil, fmt.Errorf("create guest bulk order: %w", err)
	}
	return &order, nil
}

// GetOrder fetches one order for the order-detail view.
func (c *Client) GetOrder(ctx context.Context, token string, orderID int) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), token, nil, &order); err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return &order, nil
}

// GetPaymentInfo fetches the payment state of an order.
func (c *Client) GetPaymentInfo(ctx context.Context, token string, orderID int) (*PaymentInfo, error) {
	var info PaymentInfo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/payment-info", orderID), token, nil, &info); err != nil {
		return nil, fmt.Errorf("get payment info for order %d: %w", orderID, err)
	}
	return &info, nil
}
