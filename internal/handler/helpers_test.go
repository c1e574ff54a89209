package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

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

// fakePlatform stands in for the core platform across all handler tests.
type fakePlatform struct {
	order      *domain.Order
	orderErr   error
	games      []domain.Game
	messages   []domain.SupportMessage
	user       *domain.User
	guestCalls int
	authCalls  int
	lastGuest  backend.GuestBulkOrderRequest
}

func (f *fakePlatform) CreateBulkOrder(ctx context.Context, token string, req backend.BulkOrderRequest) (*domain.Order, error) {
	f.authCalls++
	return f.order, f.orderErr
}

func (f *fakePlatform) CreateGuestBulkOrder(ctx context.Context, req backend.GuestBulkOrderRequest) (*domain.Order, error) {
	f.guestCalls++
	f.lastGuest = req
	return f.order, f.orderErr
}

func (f *fakePlatform) GetOrder(ctx context.Context, token string, orderID int) (*domain.Order, error) {
	return f.order, f.orderErr
}

func (f *fakePlatform) GetPaymentInfo(ctx context.Context, token string, orderID int) (*backend.PaymentInfo, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &backend.PaymentInfo{
		OrderID:    orderID,
		Status:     f.order.Status,
		PaymentURL: f.order.PaymentURL,
	}, nil
}

func (f *fakePlatform) GetAdminGame(ctx context.Context, token string, gameID int) (*domain.Game, error) {
	for i := range f.games {
		if f.games[i].ID == gameID {
			return &f.games[i], nil
		}
	}
	return nil, domain.ErrGameNotFound
}

func (f *fakePlatform) ListGames(ctx context.Context, query string) ([]domain.Game, error) {
	return f.games, nil
}

func (f *fakePlatform) GetGame(ctx context.Context, gameID int) (*domain.Game, error) {
	return f.GetAdminGame(ctx, "", gameID)
}

func (f *fakePlatform) SupportHistory(ctx context.Context, token, guestID string) ([]domain.SupportMessage, error) {
	return f.messages, nil
}

func (f *fakePlatform) SendSupportMessage(ctx context.Context, token, guestID, message string) error {
	f.messages = append(f.messages, domain.SupportMessage{ID: len(f.messages) + 1, Message: message})
	return nil
}

func (f *fakePlatform) UnreadNotificationCount(ctx context.Context, token string) (int, error) {
	return 3, nil
}

func (f *fakePlatform) RequestLoginLink(ctx context.Context, email string) error { return nil }

func (f *fakePlatform) VerifyLoginToken(ctx context.Context, token string) (string, error) {
	return "access-" + token, nil
}

func (f *fakePlatform) Me(ctx context.Context, token string) (*domain.User, error) {
	return f.user, nil
}

func (f *fakePlatform) ListSubcategories(ctx context.Context, token string, gameID int) ([]domain.Subcategory, error) {
	return nil, nil
}

func (f *fakePlatform) CreateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) (*domain.Subcategory, error) {
	sub.ID = 100 + len(f.games)
	return &sub, nil
}

func (f *fakePlatform) UpdateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) error {
	return nil
}

func (f *fakePlatform) DeleteSubcategory(ctx context.Context, token string, subcategoryID int) error {
	return nil
}

func (f *fakePlatform) UpdateGame(ctx context.Context, token string, game *domain.Game) error {
	return nil
}

type fakeSessionRepo struct {
	store map[string]domain.Session
}

func (f *fakeSessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, ok := f.store[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessionRepo) Upsert(ctx context.Context, session *domain.Session) error {
	f.store[session.ID] = *session
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, sessionID string) error {
	delete(f.store, sessionID)
	return nil
}

// newTestHandler wires a Handler over in-memory fakes.
func newTestHandler(platform *fakePlatform) *Handler {
	carts := cart.NewService(cart.NewFakeRepository(), nil)
	authSvc := auth.NewService(&fakeSessionRepo{store: make(map[string]domain.Session)}, platform)
	return New(
		carts,
		checkout.NewService(platform, carts),
		catalog.NewService(platform, 16, time.Minute),
		gamesync.NewReconciler(platform),
		support.NewService(platform, time.Hour),
		notification.NewService(platform, time.Minute),
		authSvc,
		platform,
		platform,
	)
}

// withSession injects the session the middleware would have resolved.
func withSession(r *http.Request, session *domain.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session))
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
