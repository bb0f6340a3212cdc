package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/catalog"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/storage"
)

var ErrUnknownVariant = errors.New("unknown variant value")

// Store owns the line items for one profile. Every successful mutation is
// written through to durable storage; a failed write is logged and the
// in-memory state stays authoritative.
type Store struct {
	catalog catalog.Accessor
	storage storage.Store
	key     string
	logger  *log.Logger

	mu    sync.Mutex
	items []LineItem
}

func NewStore(cat catalog.Accessor, st storage.Store, key string, logger *log.Logger) *Store {
	return &Store{catalog: cat, storage: st, key: key, logger: logger}
}

// Load restores the cart from durable storage. A missing key, an unreadable
// store or a payload that does not parse as a line-item list all initialize
// an empty cart; Load never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("load cart %s: %v", s.key, err)
		}
		return
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Printf("load cart %s: discarding malformed payload: %v", s.key, err)
		return
	}

	for _, it := range items {
		// Drop records that violate the line-item invariants; a stored
		// quantity of zero should never have been written.
		if it.ProductID == 0 || it.Quantity < 1 {
			s.logger.Printf("load cart %s: dropping invalid record for product %d", s.key, it.ProductID)
			continue
		}
		s.items = append(s.items, it)
	}
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem adds quantity units of a product, merging into the existing line
// item if the product is already in the cart. Requests that do not fit the
// live stock are rejected without mutation.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) (AddResult, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.logger.Printf("add to cart: product %d not in catalog", productID)
			return AddResult{Status: AddNotFound}, nil
		}
		return AddResult{}, fmt.Errorf("look up product %d: %w", productID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	current := 0
	if idx >= 0 {
		current = s.items[idx].Quantity
	}

	switch {
	case product.Stock == 0:
		return AddResult{Status: AddOutOfStock}, nil
	case current >= product.Stock:
		return AddResult{Status: AddLimitReached}, nil
	case current+quantity > product.Stock:
		return AddResult{Status: AddStockExceeded, Remaining: product.Stock - current}, nil
	}

	if idx >= 0 {
		s.items[idx].Quantity += quantity
	} else {
		s.items = append(s.items, LineItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			Category:      product.Category,
			Image:         product.Image,
			Colors:        product.Colors,
			Sizes:         product.Sizes,
			Quantity:      quantity,
			SelectedColor: first(product.Colors),
			SelectedSize:  first(product.Sizes),
		})
		idx = len(s.items) - 1
	}

	s.persist(ctx)

	item := s.items[idx]
	return AddResult{Status: AddAccepted, Item: &item}, nil
}

// RemoveItem deletes the line item for a product. Removing an absent product
// is a no-op, so the call is idempotent.
func (s *Store) RemoveItem(ctx context.Context, productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return false
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist(ctx)
	return true
}

// UpdateQuantity sets a line item's quantity from a displayed edit field.
// Values below 1 are floored to 1; values above the live stock are clamped
// down and reported, so the field always lands on a submittable number.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return UpdateResult{}, nil
	}

	if quantity < 1 {
		quantity = 1
	}

	res := UpdateResult{Found: true}

	product, err := s.catalog.ProductByID(ctx, productID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		// Product vanished from the catalog. Keep the edit; reconciliation
		// will flag the item as unavailable.
		s.logger.Printf("update quantity: product %d no longer in catalog", productID)
	case err != nil:
		return UpdateResult{}, fmt.Errorf("look up product %d: %w", productID, err)
	case quantity > product.Stock:
		// A zero-stock product still keeps quantity 1: the item is flagged by
		// reconciliation instead of being silently shrunk out of the cart.
		clamped := product.Stock
		if clamped < 1 {
			clamped = 1
		}
		if clamped != quantity {
			quantity = clamped
			res.Clamped = true
		}
	}

	s.items[idx].Quantity = quantity
	res.Quantity = quantity
	s.persist(ctx)
	return res, nil
}

// UpdateVariant changes the chosen color or size. The value must be one of
// the variants snapshotted on the line item; stock is not consulted because
// stock counts are tracked per product, not per variant.
func (s *Store) UpdateVariant(ctx context.Context, productID int64, field VariantField, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return false, nil
	}

	switch field {
	case VariantColor:
		if !contains(s.items[idx].Colors, value) {
			return false, fmt.Errorf("%w: color %q", ErrUnknownVariant, value)
		}
		s.items[idx].SelectedColor = value
	case VariantSize:
		if !contains(s.items[idx].Sizes, value) {
			return false, fmt.Errorf("%w: size %q", ErrUnknownVariant, value)
		}
		s.items[idx].SelectedSize = value
	default:
		return false, fmt.Errorf("unknown variant field %q", field)
	}

	s.persist(ctx)
	return true, nil
}

// Clear empties the cart and deletes the storage key entirely, so an empty
// cart and a never-initialized one look the same. Idempotent.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Printf("clear cart %s: %v", s.key, err)
	}
}

// Reconcile re-reads live stock for every line item, flagging items whose
// product is gone or out of stock and clamping quantities that exceed stock.
// Flagged items stay in the cart; removal is an explicit user action.
func (s *Store) Reconcile(ctx context.Context) ([]StockIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issues []StockIssue
	adjusted := false

	for i := range s.items {
		it := &s.items[i]

		available := 0
		product, err := s.catalog.ProductByID(ctx, it.ProductID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			// treated as stock 0
		case err != nil:
			return nil, fmt.Errorf("look up product %d: %w", it.ProductID, err)
		default:
			available = product.Stock
		}

		switch {
		case available == 0:
			issues = append(issues, StockIssue{
				ProductID:   it.ProductID,
				Name:        it.Name,
				Requested:   it.Quantity,
				Available:   0,
				Unavailable: true,
			})
		case it.Quantity > available:
			issues = append(issues, StockIssue{
				ProductID: it.ProductID,
				Name:      it.Name,
				Requested: it.Quantity,
				Available: available,
				Clamped:   true,
			})
			it.Quantity = available
			adjusted = true
		}
	}

	if adjusted {
		s.persist(ctx)
	}
	return issues, nil
}

// persist writes the current items through to durable storage. Durability is
// best-effort: failures are logged and the in-memory mutation stands.
// Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Printf("save cart %s: marshal: %v", s.key, err)
		return
	}
	if err := s.storage.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Printf("save cart %s: %v", s.key, err)
	}
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
