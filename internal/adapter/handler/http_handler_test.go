package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
)

// Cart and notification endpoints run entirely on the store, so the API can
// be exercised without any backend.
func testAPI(t *testing.T) (*API, *state.Store) {
	t.Helper()
	store := state.New()
	store.SetInventory(store.Ticket(state.KeyInventory), []domain.InventoryItem{
		{ID: "i1", SKU: "SKU1", Name: "Mug", Quantity: 3, Price: decimal.NewFromInt(5)},
	})
	return &API{Store: store, Log: zap.NewNop()}, store
}

func doRequest(t *testing.T, api *API, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

func TestAddToCart_OK(t *testing.T) {
	api, store := testAPI(t)

	rec, env := doRequest(t, api, http.MethodPost, "/api/cart/items", `{"item_id":"i1","quantity":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Len(t, store.CartSnapshot().Lines, 1)
}

func TestAddToCart_InsufficientStock(t *testing.T) {
	api, store := testAPI(t)

	rec, env := doRequest(t, api, http.MethodPost, "/api/cart/items", `{"item_id":"i1","quantity":4}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "not enough stock", env.Message)
	assert.Empty(t, store.CartSnapshot().Lines)
}

func TestAddToCart_BadRequest(t *testing.T) {
	api, _ := testAPI(t)

	rec, env := doRequest(t, api, http.MethodPost, "/api/cart/items", `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestUpdateCartItem_ZeroRemoves(t *testing.T) {
	api, store := testAPI(t)
	require.True(t, store.AddToCart("i1", 2))

	rec, _ := doRequest(t, api, http.MethodPut, "/api/cart/items/i1", `{"quantity":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.CartSnapshot().Lines)
}

func TestUpdateCartItem_NotInCart(t *testing.T) {
	api, _ := testAPI(t)

	rec, env := doRequest(t, api, http.MethodPut, "/api/cart/items/i1", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item not in cart", env.Message)
}

func TestUpdateCartItem_InsufficientStock(t *testing.T) {
	api, store := testAPI(t)
	require.True(t, store.AddToCart("i1", 2))

	rec, env := doRequest(t, api, http.MethodPut, "/api/cart/items/i1", `{"quantity":4}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not enough stock", env.Message)
}

func TestMarkAllRead(t *testing.T) {
	api, store := testAPI(t)
	store.PushNotification("a")
	store.PushNotification("b")

	rec, _ := doRequest(t, api, http.MethodPost, "/api/notifications/read-all", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.UnreadCount())
	assert.Len(t, store.Notifications(), 2)
}

func TestGetState(t *testing.T) {
	api, store := testAPI(t)
	store.PushNotification("hello")

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool           `json:"success"`
		Data    state.Snapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.Inventory, 1)
	assert.Equal(t, 1, resp.Data.UnreadCount)
}

func TestCheckout_RequiresAllContactFields(t *testing.T) {
	api, _ := testAPI(t)

	rec, env := doRequest(t, api, http.MethodPost, "/api/checkout",
		`{"name":"Ann","email":"a@x","phone":"","address":"z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}
