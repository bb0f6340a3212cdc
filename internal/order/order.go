package order

import "time"

// Line is a frozen copy of one cart line item at submission time.
type Line struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Subtotal  float64 `json:"subtotal"`
}

// Customer holds the contact fields collected by the checkout form. The core
// treats them as opaque beyond requiring presence.
type Customer struct {
	Name    string `json:"customerName"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Order is the immutable record produced once per checkout attempt. It is
// never mutated after Build returns it.
type Order struct {
	ID             string    `json:"orderId"`
	CreatedAt      time.Time `json:"orderDate"`
	Customer       Customer  `json:"customer"`
	PaymentMethod  string    `json:"paymentMethod"`
	DeliveryOption string    `json:"deliveryOption"`
	Notes          string    `json:"notes"`
	Lines          []Line    `json:"items"`
	Subtotal       float64   `json:"subtotal"`
	DeliveryFee    float64   `json:"deliveryFee"`
	Total          float64   `json:"total"`
}
