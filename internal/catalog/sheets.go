package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// SheetsCatalog pulls the product list from the shop's Google Sheets web app
// and serves it from an in-memory cache. The endpoint returns
// {"success": true, "products": [...]}; a cache-busting timestamp query
// parameter is appended the same way the storefront pages do it.
type SheetsCatalog struct {
	endpoint string
	client   *http.Client

	mu     sync.RWMutex
	static *Static
}

func NewSheetsCatalog(endpoint string, client *http.Client) *SheetsCatalog {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SheetsCatalog{
		endpoint: endpoint,
		client:   client,
		static:   NewStatic(nil),
	}
}

type sheetsResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
}

// Refresh fetches the current product list and swaps the cache. A failed or
// empty response leaves the previous cache in place.
func (s *SheetsCatalog) Refresh(ctx context.Context) error {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return fmt.Errorf("parse sheets endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", "getProducts")
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build sheets request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch products: unexpected status %d", resp.StatusCode)
	}

	var body sheetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode products: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("sheets endpoint reported failure")
	}

	s.mu.Lock()
	s.static = NewStatic(body.Products)
	s.mu.Unlock()
	return nil
}

func (s *SheetsCatalog) snapshot() *Static {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.static
}

func (s *SheetsCatalog) ProductByID(ctx context.Context, id int64) (Product, error) {
	return s.snapshot().ProductByID(ctx, id)
}

func (s *SheetsCatalog) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.snapshot().ProductsByCategory(ctx, category)
}

func (s *SheetsCatalog) AllProducts(ctx context.Context) ([]Product, error) {
	return s.snapshot().AllProducts(ctx)
}
