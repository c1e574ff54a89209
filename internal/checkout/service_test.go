package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/backend"
	"github.com/donateraid/storefront-api/internal/cart"
	"github.com/donateraid/storefront-api/internal/domain"
)

type fakeOrderPlacer struct {
	authCalls  int
	guestCalls int
	lastToken  string
	lastAuth   backend.BulkOrderRequest
	lastGuest  backend.GuestBulkOrderRequest
	order      *domain.Order
	err        error
}

func (f *fakeOrderPlacer) CreateBulkOrder(ctx context.Context, token string, req backend.BulkOrderRequest) (*domain.Order, error) {
	f.authCalls++
	f.lastToken = token
	f.lastAuth = req
	return f.order, f.err
}

func (f *fakeOrderPlacer) CreateGuestBulkOrder(ctx context.Context, req backend.GuestBulkOrderRequest) (*domain.Order, error) {
	f.guestCalls++
	f.lastGuest = req
	return f.order, f.err
}

func guestSession() *domain.Session {
	return &domain.Session{ID: "sess", GuestID: "guest-1"}
}

func authSession() *domain.Session {
	return &domain.Session{ID: "sess", AccessToken: "tok-1"}
}

func validRequest() Request {
	return Request{PaymentMethod: domain.PaymentMethodCard, TermsAccepted: true}
}

func setup(t *testing.T, order *domain.Order) (*Service, *fakeOrderPlacer, *cart.Service) {
	t.Helper()
	placer := &fakeOrderPlacer{order: order}
	carts := cart.NewService(cart.NewFakeRepository(), nil)
	return NewService(placer, carts), placer, carts
}

func fillCart(t *testing.T, carts *cart.Service, items ...domain.CartLineItem) {
	t.Helper()
	_, err := carts.AddItems(context.Background(), "sess", items)
	require.NoError(t, err)
}

func TestSubmit_ValidationOrder(t *testing.T) {
	svc, placer, carts := setup(t, &domain.Order{ID: 1})
	fillCart(t, carts, domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 10}, Quantity: 1})
	ctx := context.Background()

	// Missing method wins over everything else
	_, err := svc.Submit(ctx, guestSession(), Request{GuestEmail: "bad"})
	assert.ErrorIs(t, err, domain.ErrPaymentMethodRequired)

	// Then unaccepted terms
	_, err = svc.Submit(ctx, guestSession(), Request{PaymentMethod: domain.PaymentMethodCard, GuestEmail: "bad"})
	assert.ErrorIs(t, err, domain.ErrTermsNotAccepted)

	// Then the guest email
	_, err = svc.Submit(ctx, guestSession(), Request{PaymentMethod: domain.PaymentMethodCard, TermsAccepted: true})
	assert.ErrorIs(t, err, domain.ErrGuestEmailRequired)

	_, err = svc.Submit(ctx, guestSession(), Request{PaymentMethod: domain.PaymentMethodCard, TermsAccepted: true, GuestEmail: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrGuestEmailInvalid)

	// Nothing was dispatched
	assert.Zero(t, placer.authCalls)
	assert.Zero(t, placer.guestCalls)
}

func TestSubmit_GuestPath(t *testing.T) {
	svc, placer, carts := setup(t, &domain.Order{ID: 9})
	fillCart(t, carts, domain.CartLineItem{
		Product:  domain.Product{ID: 5, GameID: 2, PriceRUB: 499},
		Inputs:   map[string]string{"player_id": "9001"},
		Quantity: 1,
	})

	req := validRequest()
	req.GuestEmail = "a@b.co"
	req.GuestName = "Alex"

	res, err := svc.Submit(context.Background(), guestSession(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, placer.guestCalls)
	assert.Zero(t, placer.authCalls)
	assert.Equal(t, "a@b.co", placer.lastGuest.Email)
	assert.Equal(t, "Alex", placer.lastGuest.Name)
	require.Len(t, placer.lastGuest.Items, 1)
	assert.Equal(t, `{"player_id":"9001"}`, placer.lastGuest.Items[0].Comment)
	assert.Equal(t, 9, res.Order.ID)
}

func TestSubmit_AuthenticatedPath(t *testing.T) {
	svc, placer, carts := setup(t, &domain.Order{ID: 3})
	fillCart(t, carts, domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 100}, Quantity: 1})

	_, err := svc.Submit(context.Background(), authSession(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, placer.authCalls)
	assert.Zero(t, placer.guestCalls)
	assert.Equal(t, "tok-1", placer.lastToken)
}

func TestSubmit_ExpandsQuantityIntoItems(t *testing.T) {
	svc, placer, carts := setup(t, &domain.Order{ID: 1})
	fillCart(t, carts,
		domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 100}, Quantity: 3},
		domain.CartLineItem{Product: domain.Product{ID: 2, GameID: 1, PriceRUB: 50}, Quantity: 1},
	)

	req := validRequest()
	req.PaymentMethod = domain.PaymentMethodTON

	_, err := svc.Submit(context.Background(), authSession(), req)
	require.NoError(t, err)

	// Quantity 3 becomes three unit-priced items, the platform has no
	// quantity field on bulk order items
	items := placer.lastAuth.Items
	require.Len(t, items, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, items[i].ProductID)
		assert.Equal(t, 100.0, items[i].Amount)
	}
	assert.Equal(t, 2, items[3].ProductID)
	assert.Equal(t, 50.0, items[3].Amount)
	assert.Equal(t, "RUB", items[0].Currency)
	assert.Equal(t, domain.PaymentMethodTON, items[0].PaymentMethod)
	assert.Empty(t, items[0].Comment)
}

func TestSubmit_EmptyCart(t *testing.T) {
	svc, placer, _ := setup(t, &domain.Order{ID: 1})

	_, err := svc.Submit(context.Background(), authSession(), validRequest())
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Zero(t, placer.authCalls)
}

func TestSubmit_SuccessClearsCart(t *testing.T) {
	svc, _, carts := setup(t, &domain.Order{ID: 1})
	fillCart(t, carts, domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 10}, Quantity: 1})
	ctx := context.Background()

	_, err := svc.Submit(ctx, authSession(), validRequest())
	require.NoError(t, err)

	got, err := carts.Get(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestSubmit_FailurePreservesCart(t *testing.T) {
	placer := &fakeOrderPlacer{err: domain.ErrBackendUnavailable}
	carts := cart.NewService(cart.NewFakeRepository(), nil)
	svc := NewService(placer, carts)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess", domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 10}, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, authSession(), validRequest())
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)

	got, err := carts.Get(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestSubmit_RedirectStates(t *testing.T) {
	tests := []struct {
		name       string
		method     domain.PaymentMethod
		paymentURL string
		want       State
	}{
		{"card with url redirects", domain.PaymentMethodCard, "https://pay.example/1", StateRedirecting},
		{"sbp with url redirects", domain.PaymentMethodSBP, "https://pay.example/1", StateRedirecting},
		{"card without url shows order", domain.PaymentMethodCard, "", StateShowingOrder},
		{"crypto never redirects", domain.PaymentMethodUSDT, "https://pay.example/1", StateShowingOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, carts := setup(t, &domain.Order{ID: 1, PaymentURL: tt.paymentURL})
			fillCart(t, carts, domain.CartLineItem{Product: domain.Product{ID: 1, GameID: 1, PriceRUB: 10}, Quantity: 1})

			req := validRequest()
			req.PaymentMethod = tt.method

			res, err := svc.Submit(context.Background(), authSession(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.State)
			if tt.want == StateRedirecting {
				assert.Equal(t, tt.paymentURL, res.PaymentURL)
			}
		})
	}
}
