package orders_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulov/shopdesk/orders"
)

func TestParseFulfillmentStatus(t *testing.T) {
	wire := map[string]orders.FulfillmentStatus{
		"new":        orders.FulfillmentNew,
		"processing": orders.FulfillmentProcessing,
		"shipped":    orders.FulfillmentShipped,
		"delivered":  orders.FulfillmentDelivered,
		"cancelled":  orders.FulfillmentCancelled,
	}
	for raw, want := range wire {
		t.Run(raw, func(t *testing.T) {
			got, err := orders.ParseFulfillmentStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, raw, got.String())
		})
	}

	_, err := orders.ParseFulfillmentStatus("unknown-stage")
	require.Error(t, err)
}

func TestFulfillmentStatus_Validate(t *testing.T) {
	require.NoError(t, orders.FulfillmentShipped.Validate())
	require.Error(t, orders.FulfillmentUnknown.Validate())
	require.Error(t, orders.FulfillmentStatus(42).Validate())
}

func TestFulfillmentStatus_LabelIsTotal(t *testing.T) {
	statuses := []orders.FulfillmentStatus{
		orders.FulfillmentUnknown,
		orders.FulfillmentNew,
		orders.FulfillmentProcessing,
		orders.FulfillmentShipped,
		orders.FulfillmentDelivered,
		orders.FulfillmentCancelled,
		orders.FulfillmentStatus(42),
	}
	for _, s := range statuses {
		assert.NotEmpty(t, s.Label(), "status %d must have a display label", int(s))
	}
}

func TestFulfillmentStatus_JSON(t *testing.T) {
	data, err := json.Marshal(orders.FulfillmentShipped)
	require.NoError(t, err)
	assert.JSONEq(t, `"shipped"`, string(data))

	var parsed orders.FulfillmentStatus
	require.NoError(t, json.Unmarshal([]byte(`"cancelled"`), &parsed))
	assert.Equal(t, orders.FulfillmentCancelled, parsed)

	require.Error(t, json.Unmarshal([]byte(`"bogus"`), &parsed))

	_, err = json.Marshal(orders.FulfillmentUnknown)
	require.Error(t, err, "unknown status must not reach the wire")
}

func TestParsePaymentStatus(t *testing.T) {
	wire := map[string]orders.PaymentStatus{
		"pending":  orders.PaymentPending,
		"paid":     orders.PaymentPaid,
		"failed":   orders.PaymentFailed,
		"refunded": orders.PaymentRefunded,
	}
	for raw, want := range wire {
		t.Run(raw, func(t *testing.T) {
			got, err := orders.ParsePaymentStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, raw, got.String())
		})
	}

	_, err := orders.ParsePaymentStatus("charged")
	require.Error(t, err)
}

func TestPaymentStatus_AdminSettable(t *testing.T) {
	assert.True(t, orders.PaymentPending.AdminSettable())
	assert.True(t, orders.PaymentPaid.AdminSettable())
	assert.True(t, orders.PaymentRefunded.AdminSettable())

	// failed is recorded by payment processing only.
	assert.False(t, orders.PaymentFailed.AdminSettable())
	assert.False(t, orders.PaymentUnknown.AdminSettable())
}

func TestPaymentStatus_LabelIsTotal(t *testing.T) {
	statuses := []orders.PaymentStatus{
		orders.PaymentUnknown,
		orders.PaymentPending,
		orders.PaymentPaid,
		orders.PaymentFailed,
		orders.PaymentRefunded,
		orders.PaymentStatus(42),
	}
	for _, s := range statuses {
		assert.NotEmpty(t, s.Label(), "status %d must have a display label", int(s))
	}
}
