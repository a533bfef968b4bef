package orders

import (
	"encoding/json"
	"fmt"
)

// FulfillmentStatus is the shipping/delivery lifecycle stage of an order.
//
// The zero value is FulfillmentUnknown so that uninitialized or
// unrecognized statuses are caught by Validate instead of silently
// passing as a real stage.
type FulfillmentStatus int

const (
	FulfillmentUnknown FulfillmentStatus = iota
	FulfillmentNew
	FulfillmentProcessing
	FulfillmentShipped
	FulfillmentDelivered
	FulfillmentCancelled
)

var fulfillmentWire = map[FulfillmentStatus]string{
	FulfillmentNew:        "new",
	FulfillmentProcessing: "processing",
	FulfillmentShipped:    "shipped",
	FulfillmentDelivered:  "delivered",
	FulfillmentCancelled:  "cancelled",
}

var fulfillmentLabels = map[FulfillmentStatus]string{
	FulfillmentUnknown:    "Unknown",
	FulfillmentNew:        "New",
	FulfillmentProcessing: "Processing",
	FulfillmentShipped:    "Shipped",
	FulfillmentDelivered:  "Delivered",
	FulfillmentCancelled:  "Cancelled",
}

// ParseFulfillmentStatus converts a wire string ("new", "processing",
// "shipped", "delivered", "cancelled") into a FulfillmentStatus.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	for status, wire := range fulfillmentWire {
		if wire == s {
			return status, nil
		}
	}
	return FulfillmentUnknown, fmt.Errorf("unknown fulfillment status %q", s)
}

// String returns the wire representation, or "unknown" for invalid values.
func (s FulfillmentStatus) String() string {
	if wire, ok := fulfillmentWire[s]; ok {
		return wire
	}
	return "unknown"
}

// Label returns the human-facing display text for the status.
func (s FulfillmentStatus) Label() string {
	if label, ok := fulfillmentLabels[s]; ok {
		return label
	}
	return fulfillmentLabels[FulfillmentUnknown]
}

// Validate reports whether the status is one of the defined lifecycle
// stages. FulfillmentUnknown is not valid.
func (s FulfillmentStatus) Validate() error {
	if _, ok := fulfillmentWire[s]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("%d is not a valid fulfillment status", s)}
	}
	return nil
}

// MarshalJSON encodes the status as its wire string.
func (s FulfillmentStatus) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire string into the status.
func (s *FulfillmentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseFulfillmentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PaymentStatus is the payment lifecycle stage of an order, independent
// of its fulfillment status.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var paymentWire = map[PaymentStatus]string{
	PaymentPending:  "pending",
	PaymentPaid:     "paid",
	PaymentFailed:   "failed",
	PaymentRefunded: "refunded",
}

var paymentLabels = map[PaymentStatus]string{
	PaymentUnknown:  "Unknown",
	PaymentPending:  "Pending",
	PaymentPaid:     "Paid",
	PaymentFailed:   "Failed",
	PaymentRefunded: "Refunded",
}

// ParsePaymentStatus converts a wire string ("pending", "paid",
// "failed", "refunded") into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, wire := range paymentWire {
		if wire == s {
			return status, nil
		}
	}
	return PaymentUnknown, fmt.Errorf("unknown payment status %q", s)
}

// String returns the wire representation, or "unknown" for invalid values.
func (s PaymentStatus) String() string {
	if wire, ok := paymentWire[s]; ok {
		return wire
	}
	return "unknown"
}

// Label returns the human-facing display text for the status.
func (s PaymentStatus) Label() string {
	if label, ok := paymentLabels[s]; ok {
		return label
	}
	return paymentLabels[PaymentUnknown]
}

// Validate reports whether the status is one of the defined lifecycle
// stages. PaymentUnknown is not valid.
func (s PaymentStatus) Validate() error {
	if _, ok := paymentWire[s]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("%d is not a valid payment status", s)}
	}
	return nil
}

// AdminSettable reports whether an operator may request this payment
// status. "failed" is recorded by the backend's payment processing only
// and can never be set through the admin interface.
func (s PaymentStatus) AdminSettable() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the status as its wire string.
func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire string into the status.
func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
