// Package pricing derives totals from a cart snapshot. Everything here is a
// pure function of the line items and the configured fee constants.
package pricing

import "github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/cart"

// Config carries the delivery-fee step function parameters. Orders at or
// above the threshold ship free; everything below pays the flat fee.
type Config struct {
	FreeShippingThreshold float64
	FlatDeliveryFee       float64
}

func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 1000,
		FlatDeliveryFee:       50,
	}
}

// Summary is the computed order math handed to views and the order builder.
type Summary struct {
	ItemCount                int     `json:"itemCount"`
	Subtotal                 float64 `json:"subtotal"`
	DeliveryFee              float64 `json:"deliveryFee"`
	Total                    float64 `json:"total"`
	RemainingForFreeShipping float64 `json:"remainingForFreeShipping"`
}

func ItemCount(items []cart.LineItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}

func Subtotal(items []cart.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c Config) DeliveryFee(subtotal float64) float64 {
	if subtotal >= c.FreeShippingThreshold {
		return 0
	}
	return c.FlatDeliveryFee
}

func (c Config) Total(subtotal float64) float64 {
	return subtotal + c.DeliveryFee(subtotal)
}

// RemainingForFreeShipping is display encouragement only: how much more the
// shopper needs to spend before the fee drops away.
func (c Config) RemainingForFreeShipping(subtotal float64) float64 {
	if remaining := c.FreeShippingThreshold - subtotal; remaining > 0 {
		return remaining
	}
	return 0
}

func (c Config) Summarize(items []cart.LineItem) Summary {
	subtotal := Subtotal(items)
	return Summary{
		ItemCount:                ItemCount(items),
		Subtotal:                 subtotal,
		DeliveryFee:              c.DeliveryFee(subtotal),
		Total:                    c.Total(subtotal),
		RemainingForFreeShipping: c.RemainingForFreeShipping(subtotal),
	}
}
