package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulov/shopdesk/orders"
	"github.com/akulov/shopdesk/session"
	"github.com/akulov/shopdesk/storage/memory"
)

// TestWorkflowEndToEnd drives the full stack: session manager, order
// workflow controller, and the HTTP backend contract.
func TestWorkflowEndToEnd(t *testing.T) {
	backend, url := newBackend(t)
	seeded := backend.SeedOrder(orders.Order{
		Number:            "SP-1001",
		FulfillmentStatus: orders.FulfillmentProcessing,
		PaymentStatus:     orders.PaymentPending,
	})

	m := session.NewManager(url, memory.NewStore())
	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	c := orders.NewController(m.Client())
	_, err = c.List(context.Background())
	require.NoError(t, err)

	// Shipping with a tracking number puts both fields in one payload.
	updated, err := c.SetFulfillmentStatus(context.Background(), seeded.ID, orders.FulfillmentShipped, "TRACK123")
	require.NoError(t, err)
	assert.Equal(t, orders.FulfillmentShipped, updated.FulfillmentStatus)
	assert.Equal(t, "TRACK123", updated.TrackingNumber)

	reqs := backend.StatusRequests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `"shipped"`, string(reqs[0].Fields["orderStatus"]))
	assert.JSONEq(t, `"TRACK123"`, string(reqs[0].Fields["trackingNumber"]))

	// A later, unrelated fulfillment update carries no tracking field at
	// all, even though one was supplied before.
	_, err = c.SetFulfillmentStatus(context.Background(), seeded.ID, orders.FulfillmentDelivered, "TRACK123")
	require.NoError(t, err)

	reqs = backend.StatusRequests()
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `"delivered"`, string(reqs[1].Fields["orderStatus"]))
	assert.NotContains(t, reqs[1].Fields, "trackingNumber")

	// Payment axis moves independently; the local copy takes whatever
	// the backend answers.
	backend.NormalizePayment = func(orders.PaymentStatus) orders.PaymentStatus {
		return orders.PaymentPaid
	}
	updated, err = c.SetPaymentStatus(context.Background(), seeded.ID, orders.PaymentPending)
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, orders.FulfillmentDelivered, updated.FulfillmentStatus)

	// Payment link: first send, then resend with a different link.
	receipt, err := c.SendPaymentLink(context.Background(), seeded.ID, "https://pay.example/x")
	require.NoError(t, err)
	assert.False(t, receipt.Resent)

	receipt, err = c.SendPaymentLink(context.Background(), seeded.ID, "https://pay.example/y")
	require.NoError(t, err)
	assert.True(t, receipt.Resent)
	assert.Equal(t, []string{"https://pay.example/x", "https://pay.example/y"}, backend.PaymentLinkRequests())
}
