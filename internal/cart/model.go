package cart

// LineItem is one product entry in the cart. Name, price and the variant
// lists are snapshotted at add-time for display stability; stock is never
// copied and must always be re-read from the catalog.
type LineItem struct {
	ProductID     int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Quantity      int      `json:"quantity"`
	SelectedColor string   `json:"selectedColor"`
	SelectedSize  string   `json:"selectedSize"`
}

// AddStatus reports the outcome of an AddItem call. Additions are rejected
// rather than clamped: the caller has to re-attempt with a quantity that fits.
type AddStatus string

const (
	AddAccepted      AddStatus = "accepted"
	AddNotFound      AddStatus = "not_found"
	AddOutOfStock    AddStatus = "out_of_stock"
	AddLimitReached  AddStatus = "limit_reached"
	AddStockExceeded AddStatus = "stock_exceeded"
)

type AddResult struct {
	Status AddStatus `json:"status"`
	// Item is the updated line item when the addition was accepted.
	Item *LineItem `json:"item,omitempty"`
	// Remaining is how many additional units could still be added when the
	// requested amount did not fit.
	Remaining int `json:"remaining,omitempty"`
}

// UpdateResult reports the outcome of an UpdateQuantity call. Quantity edits
// are clamped, not rejected, so the displayed value always ends consistent.
type UpdateResult struct {
	Found    bool `json:"found"`
	Quantity int  `json:"quantity"`
	Clamped  bool `json:"clamped"`
}

// VariantField selects which variant choice UpdateVariant changes.
type VariantField string

const (
	VariantColor VariantField = "color"
	VariantSize  VariantField = "size"
)

// StockIssue describes one line item flagged during reconciliation.
type StockIssue struct {
	ProductID   int64  `json:"productId"`
	Name        string `json:"name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Unavailable bool   `json:"unavailable"`
	Clamped     bool   `json:"clamped"`
}
