package catalog

type Product struct {
	ID       string  `json:"productId"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	SKU      string  `json:"sku"`
}

// Catalog is a fixed, ordered product list.
type Catalog struct {
	products []Product
}

func New(products ...Product) *Catalog {
	return &Catalog{products: append([]Product(nil), products...)}
}

// Default returns the demo catalog shown on the product listing.
func Default() *Catalog {
	return New(
		Product{ID: "blazer_red_m", Name: "Blazer", Category: "Category A", Price: 149.99, SKU: "blazer_red_m"},
		Product{ID: "shoes_5", Name: "Shoes", Category: "Category B", Price: 79.99, SKU: "shoes_5"},
		Product{ID: "tshirt_l", Name: "T-Shirt", Category: "Category C", Price: 30.99, SKU: "tshirt_l"},
	)
}

func (c *Catalog) List() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Get(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
