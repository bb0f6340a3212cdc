package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/cart"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

const defaultDeliveryOption = "standard"

// NewOrderID produces ids like ORD-20260831-142530-1a2b3c: a sortable
// timestamp for human review plus a short random suffix. Not cryptographically
// unique; collisions are unlikely enough for a one-person shop and every
// character is safe in form fields and URLs.
func NewOrderID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "ORD-" + t.UTC().Format("20060102-150405") + "-" + suffix
}

// Builder snapshots a reconciled cart into an Order. It has no side effects
// on the cart; clearing after a successful submission is the caller's step.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build freezes the given line items and totals into an Order. The caller is
// expected to have reconciled the cart against the catalog first; Build does
// not re-validate stock.
func (b *Builder) Build(items []cart.LineItem, summary pricing.Summary, customer Customer, paymentMethod, deliveryOption, notes string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if deliveryOption == "" {
		deliveryOption = defaultDeliveryOption
	}

	now := b.now().UTC()
	o := &Order{
		ID:             NewOrderID(now),
		CreatedAt:      now,
		Customer:       customer,
		PaymentMethod:  paymentMethod,
		DeliveryOption: deliveryOption,
		Notes:          notes,
		Lines:          make([]Line, 0, len(items)),
		Subtotal:       summary.Subtotal,
		DeliveryFee:    summary.DeliveryFee,
		Total:          summary.Total,
	}

	for _, it := range items {
		o.Lines = append(o.Lines, Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Color:     it.SelectedColor,
			Size:      it.SelectedSize,
			Subtotal:  it.Price * float64(it.Quantity),
		})
	}

	return o, nil
}
