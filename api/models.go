package api

import "github.com/akulov/shopdesk/orders"

// Admin is the authenticated identity record returned by the backend
// on a successful login or registration.
type Admin struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResult is the structured outcome of a login or registration
// exchange. Rejected credentials are a reported, non-fatal outcome:
// Success is false and Message carries the backend's rejection detail.
type AuthResult struct {
	Success bool
	Token   string
	Admin   *Admin
	Message string
}

// loginRequest is the JSON body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerRequest is the JSON body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is returned from both auth endpoints.
type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Admin   *Admin `json:"admin,omitempty"`
	Message string `json:"message,omitempty"`
}

// listOrdersResponse is returned from GET /orders.
type listOrdersResponse struct {
	Data []orders.Order `json:"data"`
}

// statusUpdateRequest is the JSON body for PUT /orders/{id}/status.
// Exactly one status axis is present per request; trackingNumber rides
// along only on a transition to shipped.
type statusUpdateRequest struct {
	OrderStatus    *orders.FulfillmentStatus `json:"orderStatus,omitempty"`
	PaymentStatus  *orders.PaymentStatus     `json:"paymentStatus,omitempty"`
	TrackingNumber string                    `json:"trackingNumber,omitempty"`
}

// orderResponse is returned from order mutations and carries the
// backend's canonical updated record.
type orderResponse struct {
	Data orders.Order `json:"data"`
}

// paymentLinkRequest is the JSON body for POST /orders/{id}/send-payment-link.
type paymentLinkRequest struct {
	PaymentLink string `json:"paymentLink"`
}

// errorResponse is the backend's generic rejection body.
type errorResponse struct {
	Message string `json:"message"`
}
