package shop

import (
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const (
	EventViewItemList   = "view_item_list"
	EventSelectItem     = "select_item"
	EventViewItem       = "view_item"
	EventAddToCart      = "add_to_cart"
	EventRemoveFromCart = "remove_from_cart"
	EventViewCart       = "view_cart"
	EventBeginCheckout  = "begin_checkout"
	EventPurchase       = "purchase"
)

func itemListParams(products []catalog.Product) *analytics.Params {
	p := analytics.NewParams()
	for i, prod := range products {
		n := strconv.Itoa(i + 1)
		p.Set("item_id_"+n, prod.ID).
			Set("item_name_"+n, prod.Name).
			Set("item_category_"+n, prod.Category).
			Set("price_"+n, prod.Price)
	}
	return p
}

func productParams(prod catalog.Product) *analytics.Params {
	return analytics.NewParams().
		Set("item_id", prod.ID).
		Set("item_name", prod.Name).
		Set("item_category", prod.Category).
		Set("price", prod.Price)
}

func lineParams(prod catalog.Product, quantity int) *analytics.Params {
	return productParams(prod).Set("quantity", quantity)
}

func selectItemParams(prod catalog.Product) *analytics.Params {
	return analytics.NewParams().Set("items", []*analytics.Params{lineParams(prod, 1)})
}

func cartItemParams(items []cart.Item) []*analytics.Params {
	out := make([]*analytics.Params, len(items))
	for i, it := range items {
		out[i] = lineParams(it.Product, it.Quantity).Set("item_variant", it.SKU)
	}
	return out
}
