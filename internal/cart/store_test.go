package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/catalog"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Tote Bag", Price: 450, Category: "bags",
			Colors: []string{"Yellow", "Cream"}, Sizes: []string{"Regular", "Large"}, Stock: 5},
		{ID: 2, Name: "Bucket Hat", Price: 350, Category: "hats",
			Colors: []string{"White", "Sage"}, Sizes: []string{"S/M", "L/XL"}, Stock: 2},
		{ID: 3, Name: "Cardigan", Price: 950, Category: "apparel",
			Colors: []string{"Multicolor"}, Sizes: []string{"M"}, Stock: 3},
		{ID: 4, Name: "Plushie", Price: 50, Category: "plushies",
			Colors: []string{"Pink"}, Sizes: []string{"One Size"}, Stock: 0},
	}
}

func newTestStore(t *testing.T) (*Store, *catalog.Static, *storage.Memory) {
	t.Helper()
	cat := catalog.NewStatic(testProducts())
	mem := storage.NewMemory()
	store := NewStore(cat, mem, "cart:test", testLogger())
	store.Load(context.Background())
	return store, cat, mem
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		setup      func(t *testing.T, s *Store)
		productID  int64
		quantity   int
		wantStatus AddStatus
		wantQty    int
		wantRemain int
	}{
		"new item defaults to first variants": {
			productID:  1,
			quantity:   1,
			wantStatus: AddAccepted,
			wantQty:    1,
		},
		"re-adding merges into existing line": {
			setup: func(t *testing.T, s *Store) {
				mustAdd(t, s, 1, 2)
			},
			productID:  1,
			quantity:   1,
			wantStatus: AddAccepted,
			wantQty:    3,
		},
		"unknown product is a no-op": {
			productID:  99,
			quantity:   1,
			wantStatus: AddNotFound,
		},
		"zero stock rejected": {
			productID:  4,
			quantity:   1,
			wantStatus: AddOutOfStock,
		},
		"cart already at stock limit": {
			setup: func(t *testing.T, s *Store) {
				mustAdd(t, s, 2, 2)
			},
			productID:  2,
			quantity:   1,
			wantStatus: AddLimitReached,
		},
		"request exceeds remaining stock": {
			setup: func(t *testing.T, s *Store) {
				mustAdd(t, s, 1, 3)
			},
			productID:  1,
			quantity:   5,
			wantStatus: AddStockExceeded,
			wantRemain: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, _, _ := newTestStore(t)
			if tt.setup != nil {
				tt.setup(t, store)
			}

			before := store.Items()

			res, err := store.AddItem(ctx, tt.productID, tt.quantity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", res.Status, tt.wantStatus)
			}
			if res.Remaining != tt.wantRemain {
				t.Fatalf("remaining = %d, want %d", res.Remaining, tt.wantRemain)
			}

			if tt.wantStatus != AddAccepted {
				// Rejections must not mutate the cart.
				after := store.Items()
				if len(after) != len(before) {
					t.Fatalf("cart changed on rejection: %d -> %d items", len(before), len(after))
				}
				for i := range after {
					if after[i].Quantity != before[i].Quantity {
						t.Fatalf("quantity changed on rejection")
					}
				}
				return
			}

			if res.Item == nil {
				t.Fatal("accepted result missing item")
			}
			if res.Item.Quantity != tt.wantQty {
				t.Fatalf("quantity = %d, want %d", res.Item.Quantity, tt.wantQty)
			}
			if res.Item.SelectedColor != res.Item.Colors[0] || res.Item.SelectedSize != res.Item.Sizes[0] {
				t.Fatalf("new item did not default to first variants: %+v", res.Item)
			}
		})
	}
}

func TestAddItemThreeTimesStockTwo(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 2, 1)
	mustAdd(t, store, 2, 1)

	res, err := store.AddItem(ctx, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != AddLimitReached {
		t.Fatalf("status = %s, want %s", res.Status, AddLimitReached)
	}

	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("cart = %+v, want one line with quantity 2", items)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 1, 1)
	mustAdd(t, store, 3, 1)

	if !store.RemoveItem(ctx, 1) {
		t.Fatal("first remove reported nothing removed")
	}
	if store.RemoveItem(ctx, 1) {
		t.Fatal("second remove reported a removal")
	}

	items := store.Items()
	if len(items) != 1 || items[0].ProductID != 3 {
		t.Fatalf("cart = %+v, want only product 3", items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		productID   int64
		quantity    int
		wantFound   bool
		wantQty     int
		wantClamped bool
	}{
		"missing item is a no-op":      {productID: 99, quantity: 3},
		"normal update":                {productID: 1, quantity: 4, wantFound: true, wantQty: 4},
		"below one floors to one":      {productID: 1, quantity: 0, wantFound: true, wantQty: 1},
		"negative floors to one":       {productID: 1, quantity: -5, wantFound: true, wantQty: 1},
		"above stock clamps to stock":  {productID: 1, quantity: 99, wantFound: true, wantQty: 5, wantClamped: true},
		"exactly stock is not a clamp": {productID: 1, quantity: 5, wantFound: true, wantQty: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, _, _ := newTestStore(t)
			mustAdd(t, store, 1, 1)

			res, err := store.UpdateQuantity(ctx, tt.productID, tt.quantity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Found != tt.wantFound {
				t.Fatalf("found = %v, want %v", res.Found, tt.wantFound)
			}
			if !tt.wantFound {
				return
			}
			if res.Quantity != tt.wantQty {
				t.Fatalf("quantity = %d, want %d", res.Quantity, tt.wantQty)
			}
			if res.Clamped != tt.wantClamped {
				t.Fatalf("clamped = %v, want %v", res.Clamped, tt.wantClamped)
			}
		})
	}
}

func TestUpdateQuantityZeroStockKeepsItem(t *testing.T) {
	store, cat, _ := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 1, 2)
	cat.SetStock(1, 0)

	res, err := store.UpdateQuantity(ctx, 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found || res.Quantity != 1 || !res.Clamped {
		t.Fatalf("result = %+v, want clamped to quantity 1", res)
	}

	// The line item survives at quantity 1; reconciliation flags it instead.
	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("cart = %+v", items)
	}
}

func TestUpdateVariant(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 1, 1)

	updated, err := store.UpdateVariant(ctx, 1, VariantColor, "Cream")
	if err != nil || !updated {
		t.Fatalf("update color: updated=%v err=%v", updated, err)
	}
	updated, err = store.UpdateVariant(ctx, 1, VariantSize, "Large")
	if err != nil || !updated {
		t.Fatalf("update size: updated=%v err=%v", updated, err)
	}

	items := store.Items()
	if items[0].SelectedColor != "Cream" || items[0].SelectedSize != "Large" {
		t.Fatalf("variants = %s/%s, want Cream/Large", items[0].SelectedColor, items[0].SelectedSize)
	}

	if _, err := store.UpdateVariant(ctx, 1, VariantColor, "Neon"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("unknown color: err = %v, want ErrUnknownVariant", err)
	}
	if _, err := store.UpdateVariant(ctx, 1, VariantField("pattern"), "stripes"); err == nil {
		t.Fatal("unknown field accepted")
	}
	if updated, err := store.UpdateVariant(ctx, 99, VariantColor, "Cream"); err != nil || updated {
		t.Fatalf("missing item: updated=%v err=%v", updated, err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	cat := catalog.NewStatic(testProducts())
	mem := storage.NewMemory()
	ctx := context.Background()

	store := NewStore(cat, mem, "cart:test", testLogger())
	store.Load(ctx)
	mustAdd(t, store, 1, 2)
	mustAdd(t, store, 3, 1)
	if _, err := store.UpdateVariant(ctx, 1, VariantColor, "Cream"); err != nil {
		t.Fatalf("update variant: %v", err)
	}

	reloaded := NewStore(cat, mem, "cart:test", testLogger())
	reloaded.Load(ctx)

	want := store.Items()
	got := reloaded.Items()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d items, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ProductID != w.ProductID || g.Quantity != w.Quantity ||
			g.SelectedColor != w.SelectedColor || g.SelectedSize != w.SelectedSize {
			t.Fatalf("item %d mismatch\ngot  %+v\nwant %+v", i, g, w)
		}
	}
}

func TestLoadMalformedPayload(t *testing.T) {
	tests := map[string]string{
		"not json":         "{{{",
		"not an array":     `{"id": 1}`,
		"array of scalars": `[1, 2, 3]`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			cat := catalog.NewStatic(testProducts())
			mem := storage.NewMemory()
			ctx := context.Background()
			if err := mem.Set(ctx, "cart:test", payload); err != nil {
				t.Fatalf("seed storage: %v", err)
			}

			store := NewStore(cat, mem, "cart:test", testLogger())
			store.Load(ctx)

			if items := store.Items(); len(items) != 0 {
				t.Fatalf("loaded %d items from malformed payload", len(items))
			}
		})
	}
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	cat := catalog.NewStatic(testProducts())
	mem := storage.NewMemory()
	ctx := context.Background()

	payload := `[{"id":1,"name":"Tote Bag","price":450,"quantity":2,"selectedColor":"Yellow","selectedSize":"Regular"},` +
		`{"id":2,"name":"Hat","price":350,"quantity":0},` +
		`{"name":"no id","price":10,"quantity":3}]`
	if err := mem.Set(ctx, "cart:test", payload); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	store := NewStore(cat, mem, "cart:test", testLogger())
	store.Load(ctx)

	items := store.Items()
	if len(items) != 1 || items[0].ProductID != 1 {
		t.Fatalf("items = %+v, want only product 1", items)
	}
}

func TestClearDeletesStorageKey(t *testing.T) {
	store, _, mem := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 1, 1)
	if _, err := mem.Get(ctx, "cart:test"); err != nil {
		t.Fatalf("expected stored cart: %v", err)
	}

	store.Clear(ctx)
	if _, err := mem.Get(ctx, "cart:test"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("key still present after clear: %v", err)
	}
	if len(store.Items()) != 0 {
		t.Fatal("items remain after clear")
	}

	// Idempotent.
	store.Clear(ctx)
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("no issues on a fresh cart", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		mustAdd(t, store, 1, 2)

		issues, err := store.Reconcile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 0 {
			t.Fatalf("issues = %+v, want none", issues)
		}
	})

	t.Run("stock dropped to zero flags but keeps the item", func(t *testing.T) {
		store, cat, _ := newTestStore(t)
		mustAdd(t, store, 2, 2)
		cat.SetStock(2, 0)

		issues, err := store.Reconcile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 || !issues[0].Unavailable || issues[0].ProductID != 2 {
			t.Fatalf("issues = %+v, want product 2 unavailable", issues)
		}
		if items := store.Items(); len(items) != 1 || items[0].Quantity != 2 {
			t.Fatalf("items = %+v, want the flagged item untouched", items)
		}
	})

	t.Run("quantity above stock is clamped and persisted", func(t *testing.T) {
		cat := catalog.NewStatic(testProducts())
		mem := storage.NewMemory()
		store := NewStore(cat, mem, "cart:test", testLogger())
		store.Load(ctx)
		mustAdd(t, store, 1, 4)
		cat.SetStock(1, 2)

		issues, err := store.Reconcile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 || !issues[0].Clamped || issues[0].Available != 2 || issues[0].Requested != 4 {
			t.Fatalf("issues = %+v", issues)
		}
		if items := store.Items(); items[0].Quantity != 2 {
			t.Fatalf("quantity = %d, want 2", items[0].Quantity)
		}

		reloaded := NewStore(cat, mem, "cart:test", testLogger())
		reloaded.Load(ctx)
		if items := reloaded.Items(); items[0].Quantity != 2 {
			t.Fatalf("clamp not persisted, reloaded quantity = %d", items[0].Quantity)
		}
	})

	t.Run("product gone from catalog counts as unavailable", func(t *testing.T) {
		mem := storage.NewMemory()
		cat := catalog.NewStatic(testProducts())
		store := NewStore(cat, mem, "cart:test", testLogger())
		store.Load(ctx)
		mustAdd(t, store, 1, 1)

		// Swap to a catalog that no longer lists the product.
		gone := NewStore(catalog.NewStatic(nil), mem, "cart:test", testLogger())
		gone.Load(ctx)

		issues, err := gone.Reconcile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 || !issues[0].Unavailable {
			t.Fatalf("issues = %+v, want one unavailable", issues)
		}
	})
}

func TestCartInvariants(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, 1, 2)
	mustAdd(t, store, 1, 1)
	mustAdd(t, store, 3, 1)
	if _, err := store.UpdateQuantity(ctx, 3, -2); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	store.RemoveItem(ctx, 2)
	if _, err := store.AddItem(ctx, 2, 5); err != nil {
		t.Fatalf("add item: %v", err)
	}

	seen := make(map[int64]bool)
	for _, it := range store.Items() {
		if seen[it.ProductID] {
			t.Fatalf("duplicate line item for product %d", it.ProductID)
		}
		seen[it.ProductID] = true
		if it.Quantity < 1 {
			t.Fatalf("line item for product %d has quantity %d", it.ProductID, it.Quantity)
		}
	}
}

type failingStore struct {
	storage.Store
	setErr error
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestPersistenceFailureDoesNotBlockMutation(t *testing.T) {
	cat := catalog.NewStatic(testProducts())
	failing := &failingStore{Store: storage.NewMemory(), setErr: errors.New("quota exceeded")}
	store := NewStore(cat, failing, "cart:test", testLogger())
	ctx := context.Background()
	store.Load(ctx)

	res, err := store.AddItem(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != AddAccepted {
		t.Fatalf("status = %s, want accepted despite write failure", res.Status)
	}
	if items := store.Items(); len(items) != 1 {
		t.Fatalf("in-memory mutation lost: %+v", items)
	}
}

func mustAdd(t *testing.T, s *Store, productID int64, quantity int) {
	t.Helper()
	res, err := s.AddItem(context.Background(), productID, quantity)
	if err != nil {
		t.Fatalf("add product %d: %v", productID, err)
	}
	if res.Status != AddAccepted {
		t.Fatalf("add product %d: status %s", productID, res.Status)
	}
}
