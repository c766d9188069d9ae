package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/service"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

// API exposes the engine to the dashboard: a read-only snapshot plus intent
// endpoints, each answering with a success/failure envelope. Business-rule
// violations come back as 4xx envelopes, never as 5xx.
type API struct {
	Store     *state.Store
	Sessions  *service.SessionService
	Checkout  *service.CheckoutService
	Inventory *service.InventoryService
	Orders    *service.OrderService
	Discounts *service.DiscountService
	Inquiries *service.InquiryService
	Backups   *service.BackupService
	Cache     port.SessionCache
	Log       *zap.Logger
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (a *API) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", a.getState)

		r.Post("/session", a.signIn)
		r.Delete("/session", a.signOut)

		r.Post("/cart/items", a.addToCart)
		r.Put("/cart/items/{id}", a.updateCartItem)
		r.Delete("/cart/items/{id}", a.removeCartItem)
		r.Delete("/cart", a.clearCart)
		r.Post("/checkout", a.checkout)

		r.Post("/inventory", a.createItem)
		r.Put("/inventory/{id}", a.updateItem)
		r.Delete("/inventory/{id}", a.deleteItem)

		r.Post("/discounts", a.createDiscount)
		r.Put("/discounts/{id}", a.updateDiscount)
		r.Delete("/discounts/{id}", a.deleteDiscount)

		r.Put("/orders/{id}/status", a.updateOrderStatus)

		r.Post("/inquiries", a.createInquiry)
		r.Put("/inquiries/{id}/status", a.updateInquiryStatus)

		r.Post("/notifications/read-all", a.markAllRead)

		r.Post("/backup", a.backup)
		r.Post("/restore", a.restore)

		r.Post("/admin/sessions/{userID}/invalidate", a.invalidateSession)
		r.Delete("/admin/sessions/{userID}/invalidate", a.reinstateSession)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// failFrom maps service errors onto the response taxonomy.
func failFrom(w http.ResponseWriter, err error) {
	var ge *port.GatewayError
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		fail(w, http.StatusUnauthorized, "not signed in")
	case errors.Is(err, service.ErrNotAllowed):
		fail(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, service.ErrEmptyCart):
		fail(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, service.ErrOrderNotFound):
		fail(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidTransition):
		fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDiscountCode):
		fail(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ge):
		fail(w, http.StatusBadGateway, ge.Message)
	default:
		fail(w, http.StatusBadGateway, "the server could not complete the request")
	}
}

// ---- state ----

func (a *API) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: a.Store.Snapshot()})
}

// ---- session ----

type signInReq struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (a *API) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.User.ID == "" || req.Token == "" {
		fail(w, http.StatusBadRequest, "missing user or token")
		return
	}
	if err := a.Sessions.SignIn(r.Context(), req.User, req.Token); err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "signed in"})
}

func (a *API) signOut(w http.ResponseWriter, _ *http.Request) {
	a.Sessions.SignOut()
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "signed out"})
}

// ---- cart ----

type cartAddReq struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (a *API) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartAddReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" || req.Quantity <= 0 {
		fail(w, http.StatusBadRequest, "missing item or quantity")
		return
	}
	if !a.Store.AddToCart(req.ItemID, req.Quantity) {
		fail(w, http.StatusConflict, "not enough stock")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: a.Store.CartSnapshot()})
}

type cartUpdateReq struct {
	Quantity int `json:"quantity"`
}

func (a *API) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	if !a.Store.UpdateCartQuantity(id, req.Quantity) {
		if !a.Store.InCart(id) {
			fail(w, http.StatusNotFound, "item not in cart")
			return
		}
		fail(w, http.StatusConflict, "not enough stock")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: a.Store.CartSnapshot()})
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	a.Store.RemoveFromCart(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: a.Store.CartSnapshot()})
}

func (a *API) clearCart(w http.ResponseWriter, _ *http.Request) {
	a.Store.ClearCart()
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// ---- checkout ----

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" || customer.Address == "" {
		fail(w, http.StatusBadRequest, "all customer contact fields are required")
		return
	}
	order, err := a.Checkout.Checkout(r.Context(), customer)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: order})
}

// ---- inventory ----

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := a.Inventory.Create(r.Context(), item)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: created})
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "id")
	updated, err := a.Inventory.Update(r.Context(), item)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: updated})
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := a.Inventory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// ---- discounts ----

func (a *API) createDiscount(w http.ResponseWriter, r *http.Request) {
	var d domain.Discount
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := a.Discounts.Create(r.Context(), d)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: created})
}

func (a *API) updateDiscount(w http.ResponseWriter, r *http.Request) {
	var d domain.Discount
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d.ID = chi.URLParam(r, "id")
	updated, err := a.Discounts.Update(r.Context(), d)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: updated})
}

func (a *API) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := a.Discounts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// ---- orders ----

type statusReq struct {
	Status string `json:"status"`
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := a.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: order})
}

// ---- inquiries ----

func (a *API) createInquiry(w http.ResponseWriter, r *http.Request) {
	var inq domain.Inquiry
	if err := json.NewDecoder(r.Body).Decode(&inq); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := a.Inquiries.Create(r.Context(), inq)
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: created})
}

func (a *API) updateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	inq, err := a.Inquiries.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.InquiryStatus(req.Status))
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: inq})
}

// ---- notifications ----

func (a *API) markAllRead(w http.ResponseWriter, _ *http.Request) {
	a.Store.MarkAllNotificationsRead()
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// ---- backup / restore ----

func (a *API) backup(w http.ResponseWriter, r *http.Request) {
	res, err := a.Backups.Backup(r.Context())
	if err != nil {
		failFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: res.Message, Data: map[string]string{
		"file": base64.StdEncoding.EncodeToString(res.File),
	}})
}

type restoreReq struct {
	File string `json:"file"` // base64
}

func (a *API) restore(w http.ResponseWriter, r *http.Request) {
	var req restoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	file, err := base64.StdEncoding.DecodeString(req.File)
	if err != nil {
		fail(w, http.StatusBadRequest, "file must be base64 encoded")
		return
	}
	res, err := a.Backups.Restore(r.Context(), file)
	if err != nil {
		failFrom(w, err)
		return
	}
	if !res.Success {
		fail(w, http.StatusUnprocessableEntity, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: res.Message})
}

// ---- admin session control ----

func (a *API) invalidateSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Cache.Invalidate(r.Context(), chi.URLParam(r, "userID")); err != nil {
		a.Log.Warn("invalidate session failed", zap.Error(err))
		fail(w, http.StatusBadGateway, "could not invalidate session")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (a *API) reinstateSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Cache.Reinstate(r.Context(), chi.URLParam(r, "userID")); err != nil {
		a.Log.Warn("reinstate session failed", zap.Error(err))
		fail(w, http.StatusBadGateway, "could not reinstate session")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}
