// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/donateraid/storefront-api/internal/auth"
	"github.com/donateraid/storefront-api/internal/backend"
	"github.com/donateraid/storefront-api/internal/cart"
	"github.com/donateraid/storefront-api/internal/catalog"
	"github.com/donateraid/storefront-api/internal/checkout"
	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/gamesync"
	"github.com/donateraid/storefront-api/internal/notification"
	"github.com/donateraid/storefront-api/internal/support"
)

// OrdersAPI is the slice of the platform client the order-detail view needs.
type OrdersAPI interface {
	GetOrder(ctx context.Context, token string, orderID int) (*domain.Order, error)
	GetPaymentInfo(ctx context.Context, token string, orderID int) (*backend.PaymentInfo, error)
}

// AdminGamesAPI is the slice of the platform client the admin editor needs.
type AdminGamesAPI interface {
	GetAdminGame(ctx context.Context, token string, gameID int) (*domain.Game, error)
}

// Handler bundles the services behind the HTTP surface. One instance serves
// all routes; it holds no per-request state.
type Handler struct {
	carts         *cart.Service
	checkout      *checkout.Service
	catalog       *catalog.Service
	reconciler    *gamesync.Reconciler
	supportChat   *support.Service
	notifications *notification.Service
	auth          *auth.Service
	orders        OrdersAPI
	adminGames    AdminGamesAPI

	validate *validator.Validate
}

func New(
	carts *cart.Service,
	checkoutSvc *checkout.Service,
	catalogSvc *catalog.Service,
	reconciler *gamesync.Reconciler,
	supportChat *support.Service,
	notifications *notification.Service,
	authSvc *auth.Service,
	orders OrdersAPI,
	adminGames AdminGamesAPI,
) *Handler {
	return &Handler{
		carts:         carts,
		checkout:      checkoutSvc,
		catalog:       catalogSvc,
		reconciler:    reconciler,
		supportChat:   supportChat,
		notifications: notifications,
		auth:          authSvc,
		orders:        orders,
		adminGames:    adminGames,
		validate:      validator.New(),
	}
}
