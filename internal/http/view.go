package httpapi

import (
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/cart"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/pricing"
)

// CartView is the display model the presentation layer polls after each
// mutation. It is a stateless function of the cart snapshot, the pricing
// summary, and the latest reconciliation warnings.
type CartView struct {
	Items    []CartItemView    `json:"items"`
	Summary  pricing.Summary   `json:"summary"`
	Warnings []cart.StockIssue `json:"warnings"`
}

type CartItemView struct {
	cart.LineItem
	LineSubtotal float64 `json:"lineSubtotal"`
}

func NewCartView(items []cart.LineItem, summary pricing.Summary, warnings []cart.StockIssue) CartView {
	view := CartView{
		Items:    make([]CartItemView, 0, len(items)),
		Summary:  summary,
		Warnings: warnings,
	}
	if view.Warnings == nil {
		view.Warnings = []cart.StockIssue{}
	}
	for _, it := range items {
		view.Items = append(view.Items, CartItemView{
			LineItem:     it,
			LineSubtotal: it.Price * float64(it.Quantity),
		})
	}
	return view
}
