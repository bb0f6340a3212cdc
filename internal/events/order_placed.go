package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
)

const (
	EventsExchange          = "storefront.events"
	OrderPlacedRoutingKey   = "order.placed.v1"
	EventNameOrderPlaced    = "OrderPlaced"
	EventVersionOrderPlaced = 1
	EventSchemaOrderPlaced  = "storefront/OrderPlaced.v1"
	producerName            = "storefront"
)

// OrderPlaced is the payload published when a checkout completes. The order
// id doubles as the partition key so replays stay grouped per order.
type OrderPlaced struct {
	OrderID        string       `json:"orderId"`
	Lines          []order.Line `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	DeliveryFee    float64      `json:"deliveryFee"`
	Total          float64      `json:"total"`
	PaymentMethod  string       `json:"paymentMethod"`
	DeliveryOption string       `json:"deliveryOption"`
	CustomerName   string       `json:"customerName"`
	PlacedAt       time.Time    `json:"placedAt"`
}

// BuildOrderPlacedEnvelope wraps an order in the shared event envelope.
// Sequence may be nil when no sequence source is configured.
func BuildOrderPlacedEnvelope(o *order.Order, sequence *int64) EventEnvelope[OrderPlaced] {
	return EventEnvelope[OrderPlaced]{
		EventName:    EventNameOrderPlaced,
		EventVersion: EventVersionOrderPlaced,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: o.ID,
		Sequence:     sequence,
		OccurredAt:   time.Now().UTC(),
		Schema:       EventSchemaOrderPlaced,
		Payload: OrderPlaced{
			OrderID:        o.ID,
			Lines:          o.Lines,
			Subtotal:       o.Subtotal,
			DeliveryFee:    o.DeliveryFee,
			Total:          o.Total,
			PaymentMethod:  o.PaymentMethod,
			DeliveryOption: o.DeliveryOption,
			CustomerName:   o.Customer.Name,
			PlacedAt:       o.CreatedAt,
		},
	}
}
