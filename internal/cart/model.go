package cart

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

// Item is a product line in the cart. Quantity is mutated in place while the
// item is held by a Store.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func NewItem(p catalog.Product) *Item {
	return &Item{Product: p, Quantity: 1}
}

func (it *Item) LineTotal() float64 {
	return it.Price * float64(it.Quantity)
}

// Total sums price × quantity over items.
func Total(items []*Item) float64 {
	total := 0.0
	for _, it := range items {
		if it == nil {
			continue
		}
		total += it.LineTotal()
	}
	return total
}
