// Package backendtest provides an in-process replica of the store
// backend's contract points: bearer-authenticated order endpoints and
// the auth exchanges. Tests mount Handler on an httptest server and
// point the real client at it.
package backendtest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akulov/shopdesk/orders"
)

type account struct {
	Email    string
	Password string
	Role     string
}

// StatusRequest is a captured PUT /orders/{id}/status body, kept raw so
// tests can assert which fields were (and were not) present on the wire.
type StatusRequest struct {
	OrderID string
	Fields  map[string]json.RawMessage
}

// Backend is a fake store backend. The zero value is not usable; use New.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]account
	tokens   map[string]string
	orders   map[string]orders.Order
	sequence []string

	statusRequests []StatusRequest
	linkRequests   []string

	// NormalizePayment, when set, rewrites the requested payment status
	// before it is applied, imitating server-side normalization.
	NormalizePayment func(orders.PaymentStatus) orders.PaymentStatus

	// RejectStatusUpdates, when non-empty, makes every status update
	// fail with this message and a 400, imitating server-side
	// transition rules.
	RejectStatusUpdates string
}

// New creates a Backend with no accounts and no orders.
func New() *Backend {
	return &Backend{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		orders:   make(map[string]orders.Order),
	}
}

// AddAccount registers an admin account directly, bypassing the
// first-admin-only rule.
func (b *Backend) AddAccount(username, email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[username] = account{Email: email, Password: password, Role: "admin"}
}

// SeedOrder adds an order to the fake collection and returns it.
func (b *Backend) SeedOrder(o orders.Order) orders.Order {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.FulfillmentStatus == orders.FulfillmentUnknown {
		o.FulfillmentStatus = orders.FulfillmentNew
	}
	if o.PaymentStatus == orders.PaymentUnknown {
		o.PaymentStatus = orders.PaymentPending
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.orders[o.ID]; !ok {
		b.sequence = append(b.sequence, o.ID)
	}
	b.orders[o.ID] = o
	return o
}

// Order returns the backend's current copy of an order.
func (b *Backend) Order(id string) (orders.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	return o, ok
}

// RevokeToken invalidates an issued token, so the next privileged call
// carrying it is rejected as unauthorized.
func (b *Backend) RevokeToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tokens, token)
}

// StatusRequests returns the captured status-update bodies in order.
func (b *Backend) StatusRequests() []StatusRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]StatusRequest(nil), b.statusRequests...)
}

// PaymentLinkRequests returns the captured payment links in send order.
func (b *Backend) PaymentLinkRequests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.linkRequests...)
}

// Handler returns the backend's HTTP surface.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/login", b.handleLogin)
	r.Post("/auth/register", b.handleRegister)
	r.Route("/orders", func(r chi.Router) {
		r.Use(b.requireBearer)
		r.Get("/", b.handleListOrders)
		r.Put("/{orderID}/status", b.handleUpdateStatus)
		r.Post("/{orderID}/send-payment-link", b.handleSendPaymentLink)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *Backend) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if ok {
			b.mu.Lock()
			_, ok = b.tokens[token]
			b.mu.Unlock()
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) issueToken(username string) (string, map[string]any) {
	token := uuid.NewString()
	b.tokens[token] = username
	acc := b.accounts[username]
	return token, map[string]any{
		"success": true,
		"token":   token,
		"admin":   map[string]string{"username": username, "role": acc.Role},
	}
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "malformed request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[req.Username]
	if !ok || acc.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid username or password"})
		return
	}
	_, body := b.issueToken(req.Username)
	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "malformed request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.accounts) > 0 {
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "registration is closed"})
		return
	}
	b.accounts[req.Username] = account{Email: req.Email, Password: req.Password, Role: "admin"}
	_, body := b.issueToken(req.Username)
	writeJSON(w, http.StatusCreated, body)
}

func (b *Backend) handleListOrders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := make([]orders.Order, 0, len(b.sequence))
	for _, id := range b.sequence {
		list = append(list, b.orders[id])
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (b *Backend) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "malformed request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusRequests = append(b.statusRequests, StatusRequest{OrderID: orderID, Fields: fields})

	if b.RejectStatusUpdates != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": b.RejectStatusUpdates})
		return
	}

	o, ok := b.orders[orderID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "order not found"})
		return
	}

	if raw, ok := fields["orderStatus"]; ok {
		var status orders.FulfillmentStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid order status"})
			return
		}
		o.FulfillmentStatus = status
	}
	if raw, ok := fields["paymentStatus"]; ok {
		var status orders.PaymentStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid payment status"})
			return
		}
		if b.NormalizePayment != nil {
			status = b.NormalizePayment(status)
		}
		o.PaymentStatus = status
	}
	if raw, ok := fields["trackingNumber"]; ok {
		var tracking string
		if err := json.Unmarshal(raw, &tracking); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid tracking number"})
			return
		}
		o.TrackingNumber = tracking
	}

	b.orders[orderID] = o
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": o})
}

func (b *Backend) handleSendPaymentLink(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req struct {
		PaymentLink string `json:"paymentLink"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentLink == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "paymentLink is required"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "order not found"})
		return
	}
	b.linkRequests = append(b.linkRequests, req.PaymentLink)
	o.PaymentLink = req.PaymentLink
	b.orders[orderID] = o
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
