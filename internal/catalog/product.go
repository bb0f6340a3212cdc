package catalog

// Product is a single storefront listing. The catalog is the authoritative
// source for prices and stock; the cart only ever reads it.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Stock       int      `json:"actualStock"`
	Featured    bool     `json:"featured"`
	New         bool     `json:"new"`
}
