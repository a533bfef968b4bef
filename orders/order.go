// Package orders holds the client-side projection of backend-owned
// order records and the workflow controller that requests status
// transitions and their customer-facing side effects.
package orders

import "time"

// Customer is the read-only customer block of an order.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Shipping is the read-only delivery block of an order.
type Shipping struct {
	Method     string `json:"method,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Item is a single order line.
type Item struct {
	Name     string  `json:"name"`
	Image    string  `json:"image,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is the local projection of a backend-owned order record. The
// backend is authoritative: after every successful mutation the whole
// local copy is replaced with the record the backend returned.
type Order struct {
	ID                string            `json:"_id"`
	Number            string            `json:"orderNumber"`
	FulfillmentStatus FulfillmentStatus `json:"orderStatus"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus"`
	TrackingNumber    string            `json:"trackingNumber,omitempty"`
	PaymentLink       string            `json:"paymentLink,omitempty"`
	PaymentMethod     string            `json:"paymentMethod,omitempty"`
	TotalAmount       float64           `json:"totalAmount"`
	Items             []Item            `json:"items"`
	Customer          Customer          `json:"customer"`
	Shipping          Shipping          `json:"shipping"`
	CreatedAt         time.Time         `json:"createdAt"`
}
