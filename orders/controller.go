package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// StatusUpdate is a requested transition of one of the two status axes.
// Exactly one axis is set per request; the tracking number rides along
// only on a transition to shipped.
type StatusUpdate struct {
	Fulfillment    *FulfillmentStatus
	Payment        *PaymentStatus
	TrackingNumber string
}

// Backend performs order operations against the store's REST backend.
// It is the sole source of truth for whether a transition was accepted;
// successful mutations return the canonical updated record.
type Backend interface {
	ListOrders(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, update StatusUpdate) (Order, error)
	SendPaymentLink(ctx context.Context, orderID, link string) error
}

// SendReceipt reports the outcome of a payment-link dispatch. Resent is
// true when a link had already been sent for the order before this call.
type SendReceipt struct {
	Link   string
	Resent bool
}

// Controller mediates status transitions and their customer-facing side
// effects for the locally held order collection. Failed mutations leave
// local state untouched; successful ones replace the affected record
// with the backend's canonical copy.
type Controller struct {
	backend Backend
	log     *slog.Logger

	mu   sync.RWMutex
	ids  []string
	byID map[string]Order

	onDetailClosed func(orderID string)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// WithDetailClosed registers a hook invoked with the order ID after
// every successful mutation, so an open detail view can be closed
// before it goes stale.
func WithDetailClosed(fn func(orderID string)) ControllerOption {
	return func(c *Controller) {
		c.onDetailClosed = fn
	}
}

// NewController creates a Controller over the given backend with an
// empty local collection.
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		log:     slog.Default(),
		byID:    make(map[string]Order),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the order collection from the backend and replaces the
// local one wholesale. Pure read, no side effects on the backend.
func (c *Controller) List(ctx context.Context) ([]Order, error) {
	fetched, err := c.backend.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	c.mu.Lock()
	c.ids = make([]string, 0, len(fetched))
	c.byID = make(map[string]Order, len(fetched))
	for _, o := range fetched {
		c.ids = append(c.ids, o.ID)
		c.byID[o.ID] = o
	}
	c.mu.Unlock()

	return fetched, nil
}

// Orders returns a snapshot of the local collection in listing order.
func (c *Controller) Orders() []Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Order, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Get returns the local copy of an order, if present.
func (c *Controller) Get(orderID string) (Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.byID[orderID]
	return o, ok
}

// SetFulfillmentStatus requests a fulfillment transition. A trimmed
// non-empty tracking number is included in the request iff the target
// status is shipped, so the backend can notify the customer with the
// tracking number in a single message; for every other target the
// tracking number is never sent, regardless of what was supplied or
// previously stored.
func (c *Controller) SetFulfillmentStatus(ctx context.Context, orderID string, status FulfillmentStatus, trackingNumber string) (Order, error) {
	if err := status.Validate(); err != nil {
		return Order{}, err
	}
	if _, ok := c.Get(orderID); !ok {
		return Order{}, fmt.Errorf("%s: %w", orderID, ErrOrderNotFound)
	}

	update := StatusUpdate{Fulfillment: &status}
	if status == FulfillmentShipped {
		update.TrackingNumber = strings.TrimSpace(trackingNumber)
	}

	updated, err := c.backend.UpdateStatus(ctx, orderID, update)
	if err != nil {
		return Order{}, fmt.Errorf("updating order %s status: %w", orderID, err)
	}

	c.replace(updated)
	c.closeDetail(orderID)
	c.log.Info("fulfillment status updated",
		slog.String("order", updated.Number),
		slog.String("status", updated.FulfillmentStatus.String()),
		slog.Bool("tracking_sent", update.TrackingNumber != ""))
	return updated, nil
}

// SetPaymentStatus requests a payment transition, independent of the
// fulfillment axis. Only pending, paid and refunded may be requested
// from the admin side; failed is a backend-recorded state.
func (c *Controller) SetPaymentStatus(ctx context.Context, orderID string, status PaymentStatus) (Order, error) {
	if err := status.Validate(); err != nil {
		return Order{}, err
	}
	if !status.AdminSettable() {
		return Order{}, &ValidationError{Reason: fmt.Sprintf("payment status %q cannot be set from the admin console", status)}
	}
	if _, ok := c.Get(orderID); !ok {
		return Order{}, fmt.Errorf("%s: %w", orderID, ErrOrderNotFound)
	}

	updated, err := c.backend.UpdateStatus(ctx, orderID, StatusUpdate{Payment: &status})
	if err != nil {
		return Order{}, fmt.Errorf("updating order %s payment status: %w", orderID, err)
	}

	c.replace(updated)
	c.closeDetail(orderID)
	c.log.Info("payment status updated",
		slog.String("order", updated.Number),
		slog.String("status", updated.PaymentStatus.String()))
	return updated, nil
}

// SendPaymentLink dispatches a payment link to the order's customer. An
// empty or whitespace-only link fails validation before any network
// call. Resending is always legal: a repeated call re-dispatches and
// overwrites the locally stored link with the latest submitted value.
func (c *Controller) SendPaymentLink(ctx context.Context, orderID, link string) (SendReceipt, error) {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return SendReceipt{}, &ValidationError{Reason: "payment link is empty"}
	}
	current, ok := c.Get(orderID)
	if !ok {
		return SendReceipt{}, fmt.Errorf("%s: %w", orderID, ErrOrderNotFound)
	}
	resent := current.PaymentLink != ""

	if err := c.backend.SendPaymentLink(ctx, orderID, trimmed); err != nil {
		return SendReceipt{}, fmt.Errorf("sending payment link for order %s: %w", orderID, err)
	}

	c.mu.Lock()
	if o, ok := c.byID[orderID]; ok {
		o.PaymentLink = trimmed
		c.byID[orderID] = o
	}
	c.mu.Unlock()

	c.closeDetail(orderID)
	c.log.Info("payment link sent",
		slog.String("order", current.Number),
		slog.Bool("resent", resent))
	return SendReceipt{Link: trimmed, Resent: resent}, nil
}

func (c *Controller) replace(updated Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[updated.ID]; !ok {
		c.ids = append(c.ids, updated.ID)
	}
	c.byID[updated.ID] = updated
}

func (c *Controller) closeDetail(orderID string) {
	if c.onDetailClosed != nil {
		c.onDetailClosed(orderID)
	}
}
