package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/akulov/shopdesk/orders"
)

var _ orders.Backend = (*Client)(nil)

// ListOrders fetches the backend's order collection via GET /orders.
func (c *Client) ListOrders(ctx context.Context) ([]orders.Order, error) {
	var resp listOrdersResponse
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateStatus requests a status transition via PUT /orders/{id}/status
// and returns the backend's canonical updated record.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, update orders.StatusUpdate) (orders.Order, error) {
	body := statusUpdateRequest{
		OrderStatus:    update.Fulfillment,
		PaymentStatus:  update.Payment,
		TrackingNumber: update.TrackingNumber,
	}
	var resp orderResponse
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/status", body, &resp); err != nil {
		return orders.Order{}, err
	}
	return resp.Data, nil
}

// SendPaymentLink dispatches a payment link to the order's customer via
// POST /orders/{id}/send-payment-link.
func (c *Client) SendPaymentLink(ctx context.Context, orderID, link string) error {
	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/send-payment-link", paymentLinkRequest{PaymentLink: link}, nil)
}
