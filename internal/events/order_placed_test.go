package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
)

func TestBuildOrderPlacedEnvelope(t *testing.T) {
	o := &order.Order{
		ID:             "ORD-20260831-142530-abc123",
		CreatedAt:      time.Date(2026, 8, 31, 14, 25, 30, 0, time.UTC),
		Customer:       order.Customer{Name: "Maria"},
		PaymentMethod:  "gcash",
		DeliveryOption: "standard",
		Lines: []order.Line{
			{ProductID: 1, Name: "Tote Bag", Quantity: 2, UnitPrice: 450, Subtotal: 900},
		},
		Subtotal:    900,
		DeliveryFee: 50,
		Total:       950,
	}

	seq := int64(3)
	env := BuildOrderPlacedEnvelope(o, &seq)

	require.NoError(t, env.Validate(EventNameOrderPlaced, EventVersionOrderPlaced))
	assert.Equal(t, o.ID, env.PartitionKey)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventSchemaOrderPlaced, env.Schema)
	require.NotNil(t, env.Sequence)
	assert.Equal(t, int64(3), *env.Sequence)

	assert.Equal(t, o.ID, env.Payload.OrderID)
	assert.Equal(t, 950.0, env.Payload.Total)
	assert.Equal(t, "Maria", env.Payload.CustomerName)
	require.Len(t, env.Payload.Lines, 1)

	// Every field the consumer contract names must appear on the wire.
	body, err := json.Marshal(env)
	require.NoError(t, err)
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(body, &asMap))
	for _, field := range []string{"eventName", "eventVersion", "eventId", "producer", "partitionKey", "sequence", "occurredAt", "schema", "payload"} {
		assert.Contains(t, asMap, field)
	}
	payload, ok := asMap["payload"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"orderId", "items", "subtotal", "deliveryFee", "total", "paymentMethod", "placedAt"} {
		assert.Contains(t, payload, field)
	}
}

func TestEnvelopeSequenceOmittedWhenNil(t *testing.T) {
	o := &order.Order{ID: "ORD-1", Lines: []order.Line{{ProductID: 1, Quantity: 1}}}

	env := BuildOrderPlacedEnvelope(o, nil)
	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"sequence"`)
}

func TestEnvelopeValidate(t *testing.T) {
	o := &order.Order{ID: "ORD-1"}
	env := BuildOrderPlacedEnvelope(o, nil)

	require.NoError(t, env.Validate(EventNameOrderPlaced, EventVersionOrderPlaced))

	bad := env
	bad.EventName = "WrongEvent"
	require.Error(t, bad.Validate(EventNameOrderPlaced, EventVersionOrderPlaced))

	bad = env
	bad.EventVersion = 2
	require.Error(t, bad.Validate(EventNameOrderPlaced, EventVersionOrderPlaced))

	bad = env
	bad.PartitionKey = ""
	require.Error(t, bad.Validate(EventNameOrderPlaced, EventVersionOrderPlaced))
}
