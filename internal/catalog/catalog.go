package catalog

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("product not found")

// Accessor is the read-only view of the product catalog consumed by the cart.
type Accessor interface {
	ProductByID(ctx context.Context, id int64) (Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
	AllProducts(ctx context.Context) ([]Product, error)
}

// Static serves a fixed product list from memory. It backs the demo
// configuration and the unit tests; stock can still be adjusted so staleness
// scenarios are reproducible.
type Static struct {
	mu       sync.RWMutex
	order    []int64
	products map[int64]Product
}

func NewStatic(products []Product) *Static {
	s := &Static{products: make(map[int64]Product, len(products))}
	for _, p := range products {
		if _, exists := s.products[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *Static) ProductByID(ctx context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *Static) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if category == "" || category == "all" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Static) AllProducts(ctx context.Context) ([]Product, error) {
	return s.ProductsByCategory(ctx, "all")
}

// SetStock overwrites the live stock count for a product. No-op for unknown ids.
func (s *Static) SetStock(id int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[id]; ok {
		p.Stock = stock
		s.products[id] = p
	}
}

// Categories returns the distinct category tags in listing order.
func Categories(ctx context.Context, acc Accessor) ([]string, error) {
	products, err := acc.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out, nil
}

// Featured filters the catalog down to products flagged for the homepage.
func Featured(ctx context.Context, acc Accessor) ([]Product, error) {
	return filter(ctx, acc, func(p Product) bool { return p.Featured })
}

// NewArrivals filters the catalog down to products flagged as new.
func NewArrivals(ctx context.Context, acc Accessor) ([]Product, error) {
	return filter(ctx, acc, func(p Product) bool { return p.New })
}

func filter(ctx context.Context, acc Accessor, keep func(Product) bool) ([]Product, error) {
	products, err := acc.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	var out []Product
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
