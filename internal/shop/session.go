package shop

import (
	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// Session owns the cart and the event mirror of one shopper.
type Session struct {
	ID     string
	Cart   *cart.Store
	Mirror *analytics.Mirror
}

func NewSession(opts ...analytics.Option) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Cart:   cart.NewStore(),
		Mirror: analytics.NewMirror(opts...),
	}
}
