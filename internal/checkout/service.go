// Package checkout turns a session's cart into a bulk order on the core
// platform, choosing the authenticated or guest path.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/donateraid/storefront-api/internal/backend"
	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
)

// Request is one checkout submission.
type Request struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	TermsAccepted bool                 `json:"terms_accepted"`
	GuestEmail    string               `json:"guest_email,omitempty"`
	GuestName     string               `json:"guest_name,omitempty"`
}

// State says where the buyer goes after a successful submission.
type State string

const (
	// StateRedirecting sends the buyer to the external payment page.
	StateRedirecting State = "redirecting"
	// StateShowingOrder sends the buyer to the order-detail view.
	StateShowingOrder State = "showing_order"
)

// Result is the outcome of a successful checkout.
type Result struct {
	State      State         `json:"state"`
	Order      *domain.Order `json:"order"`
	PaymentURL string        `json:"payment_url,omitempty"`
}

// OrderPlacer is the slice of the platform client checkout needs.
type OrderPlacer interface {
	CreateBulkOrder(ctx context.Context, token string, req backend.BulkOrderRequest) (*domain.Order, error)
	CreateGuestBulkOrder(ctx context.Context, req backend.GuestBulkOrderRequest) (*domain.Order, error)
}

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type Service struct {
	orders   OrderPlacer
	carts    Carts
	validate *validator.Validate
}

func NewService(orders OrderPlacer, carts Carts) *Service {
	return &Service{
		orders:   orders,
		carts:    carts,
		validate: validator.New(),
	}
}

// Submit validates the request, dispatches the cart as a bulk order and
// clears the cart on success. Validation fails fast in a fixed order: payment
// method, then terms, then the guest email. A failed submission leaves the
// cart untouched so the buyer can retry.
func (s *Service) Submit(ctx context.Context, session *domain.Session, req Request) (*Result, error) {
	if err := s.validateRequest(session, req); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, domain.ErrCartEmpty
	}

	items := buildOrderItems(cart, req.PaymentMethod)

	var order *domain.Order
	if session.Authenticated() {
		order, err = s.orders.CreateBulkOrder(ctx, session.AccessToken, backend.BulkOrderRequest{Items: items})
	} else {
		order, err = s.orders.CreateGuestBulkOrder(ctx, backend.GuestBulkOrderRequest{
			Email: req.GuestEmail,
			Name:  req.GuestName,
			Items: items,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, session.ID); err != nil {
		// The order exists, so a failed cart clear must not fail the checkout
		logger.FromContext(ctx).Warn("cart clear after checkout failed", "error", err)
	}

	result := &Result{State: StateShowingOrder, Order: order}
	if req.PaymentMethod.RequiresRedirect() && order.PaymentURL != "" {
		result.State = StateRedirecting
		result.PaymentURL = order.PaymentURL
	}

	logger.FromContext(ctx).Info("checkout submitted",
		"order_id", order.ID,
		"items", len(items),
		"guest", !session.Authenticated(),
		"state", result.State)
	return result, nil
}

func (s *Service) validateRequest(session *domain.Session, req Request) error {
	if !req.PaymentMethod.Valid() {
		return domain.ErrPaymentMethodRequired
	}
	if !req.TermsAccepted {
		return domain.ErrTermsNotAccepted
	}
	if !session.Authenticated() {
		if req.GuestEmail == "" {
			return domain.ErrGuestEmailRequired
		}
		if err := s.validate.Var(req.GuestEmail, "email"); err != nil {
			return domain.ErrGuestEmailInvalid
		}
	}
	return nil
}

// buildOrderItems flattens the cart into the platform's bulk shape. The
// platform prices each order item at the unit amount, so a line with
// quantity N expands into N identical items, inputs carried as a JSON
// comment on each.
func buildOrderItems(cart *domain.Cart, method domain.PaymentMethod) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, cart.TotalCount())
	for _, line := range cart.Items {
		comment := ""
		if len(line.Inputs) > 0 {
			if raw, err := json.Marshal(line.Inputs); err == nil {
				comment = string(raw)
			}
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			items = append(items, domain.OrderItem{
				GameID:        line.Product.GameID,
				ProductID:     line.Product.ID,
				Amount:        line.Product.PriceRUB,
				Currency:      "RUB",
				PaymentMethod: method,
				Comment:       comment,
			})
		}
	}
	return items
}
