package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donateraid/storefront-api/internal/domain"
)

func guestSession() *domain.Session {
	return &domain.Session{ID: "sess", GuestID: "guest-1"}
}

func addItemsBody() string {
	return `{"items":[
		{"product":{"id":5,"game_id":2,"name":"1000 Gems","price_rub":499},"inputs":{"player_id":"9001"},"quantity":1},
		{"product":{"id":5,"game_id":2,"name":"1000 Gems","price_rub":499},"inputs":{"player_id":"9001"},"quantity":2}
	]}`
}

func TestHandleAddItems_MergesDuplicates(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(addItemsBody()))
	req = withSession(req, guestSession())
	w := httptest.NewRecorder()

	h.HandleAddItems(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 3*499.0, resp.TotalPrice)
}

func TestHandleGetCart_EmptyForNewSession(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	req := withSession(httptest.NewRequest("GET", "/api/v1/cart", nil), guestSession())
	w := httptest.NewRecorder()

	h.HandleGetCart(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"total_count":0`)
}

func TestHandleAddItems_RejectsEmptyBatch(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"items":[]}`))
	req = withSession(req, guestSession())
	w := httptest.NewRecorder()

	h.HandleAddItems(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRemoveItem_OutOfRangeIsNoop(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	add := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(addItemsBody()))
	h.HandleAddItems(httptest.NewRecorder(), withSession(add, guestSession()))

	req := withSession(httptest.NewRequest("DELETE", "/api/v1/cart/items/9", nil), guestSession())
	req = withURLParam(req, "index", "9")
	w := httptest.NewRecorder()

	h.HandleRemoveItem(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
}

func TestHandleRemoveItem_BadIndex(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	req := withSession(httptest.NewRequest("DELETE", "/api/v1/cart/items/abc", nil), guestSession())
	req = withURLParam(req, "index", "abc")
	w := httptest.NewRecorder()

	h.HandleRemoveItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	add := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(addItemsBody()))
	h.HandleAddItems(httptest.NewRecorder(), withSession(add, guestSession()))

	req := httptest.NewRequest("PATCH", "/api/v1/cart/items/0", strings.NewReader(`{"quantity":0}`))
	req = withURLParam(withSession(req, guestSession()), "index", "0")
	w := httptest.NewRecorder()

	h.HandleUpdateQuantity(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestHandleClearCart(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	add := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(addItemsBody()))
	h.HandleAddItems(httptest.NewRecorder(), withSession(add, guestSession()))

	req := withSession(httptest.NewRequest("DELETE", "/api/v1/cart", nil), guestSession())
	w := httptest.NewRecorder()

	h.HandleClearCart(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	get := withSession(httptest.NewRequest("GET", "/api/v1/cart", nil), guestSession())
	w = httptest.NewRecorder()
	h.HandleGetCart(w, get)
	assert.Contains(t, w.Body.String(), `"total_count":0`)
}
