package shop

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyCart       = errors.New("cart is empty")
)

const (
	DefaultCurrency    = "USD"
	DefaultAffiliation = "Store Name"
)

type CartView struct {
	Items []cart.Item `json:"items"`
	Total float64     `json:"total"`
}

type Receipt struct {
	OrderID      string      `json:"orderId"`
	Total        float64     `json:"total"`
	Currency     string      `json:"currency"`
	Items        []cart.Item `json:"items"`
	PurchaseJSON string      `json:"purchaseJson"`
}

// Service runs the shopping flow against one session: every step mutates the
// cart as needed and records the matching analytics event.
type Service struct {
	catalog     *catalog.Catalog
	session     *Session
	currency    string
	affiliation string
	newOrderID  func() string
}

type Option func(*Service)

func WithCurrency(c string) Option {
	return func(s *Service) {
		if c != "" {
			s.currency = c
		}
	}
}

func WithAffiliation(a string) Option {
	return func(s *Service) {
		if a != "" {
			s.affiliation = a
		}
	}
}

func WithOrderIDs(fn func() string) Option {
	return func(s *Service) { s.newOrderID = fn }
}

func NewService(cat *catalog.Catalog, session *Session, opts ...Option) *Service {
	s := &Service{
		catalog:     cat,
		session:     session,
		currency:    DefaultCurrency,
		affiliation: DefaultAffiliation,
		newOrderID:  newTransactionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Session() *Session { return s.session }

func (s *Service) ListProducts(ctx context.Context) []catalog.Product {
	products := s.catalog.List()
	s.session.Mirror.Record(ctx, EventViewItemList, itemListParams(products))
	return products
}

// ViewProduct opens a listed product: select_item for the list click, then
// view_item for the detail page.
func (s *Service) ViewProduct(ctx context.Context, productID string) (catalog.Product, error) {
	prod, ok := s.catalog.Get(productID)
	if !ok {
		return catalog.Product{}, ErrProductNotFound
	}
	s.session.Mirror.Record(ctx, EventSelectItem, selectItemParams(prod))
	s.session.Mirror.Record(ctx, EventViewItem, productParams(prod))
	return prod, nil
}

// AddToCart adds one unit of the product, merging into an existing line.
func (s *Service) AddToCart(ctx context.Context, productID string) (cart.Item, error) {
	prod, ok := s.catalog.Get(productID)
	if !ok {
		return cart.Item{}, ErrProductNotFound
	}
	s.session.Cart.Add(prod, 1)
	s.session.Mirror.Record(ctx, EventAddToCart, lineParams(prod, 1))
	line, _ := s.session.Cart.Line(prod.ID)
	return line, nil
}

func (s *Service) IncreaseQuantity(ctx context.Context, productID string) (cart.Item, error) {
	if _, ok := s.session.Cart.Increment(productID); !ok {
		return cart.Item{}, ErrProductNotFound
	}
	line, _ := s.session.Cart.Line(productID)
	return line, nil
}

// DecreaseQuantity removes one unit. The line is dropped, and
// remove_from_cart recorded, when its quantity would reach zero.
func (s *Service) DecreaseQuantity(ctx context.Context, productID string) (cart.Item, bool, error) {
	it, removed, ok := s.session.Cart.Decrement(productID)
	if !ok {
		return cart.Item{}, false, ErrProductNotFound
	}
	if removed {
		s.session.Mirror.Record(ctx, EventRemoveFromCart, lineParams(it.Product, 1))
		return cart.Item{Product: it.Product, Quantity: 0}, true, nil
	}
	line, _ := s.session.Cart.Line(productID)
	return line, false, nil
}

func (s *Service) ViewCart(ctx context.Context) CartView {
	lines := s.session.Cart.Lines()

	s.session.Mirror.Record(ctx, EventViewCart,
		analytics.NewParams().Set("items", cartItemParams(lines)))

	return CartView{Items: lines, Total: linesTotal(lines)}
}

// Checkout takes every cart line, records begin_checkout then purchase for
// them, and leaves the cart empty. Lines added while the events fan out stay
// in the cart for the next order.
func (s *Service) Checkout(ctx context.Context) (Receipt, error) {
	lines := s.session.Cart.TakeAll()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	total := linesTotal(lines)
	orderID := s.newOrderID()

	s.session.Mirror.Record(ctx, EventBeginCheckout, analytics.NewParams().
		Set("currency", s.currency).
		Set("value", total).
		Set("items", cartItemParams(lines)))

	params := analytics.NewParams().
		Set("transaction_id", orderID).
		Set("affiliation", s.affiliation).
		Set("value", total).
		Set("currency", s.currency).
		Set("items", cartItemParams(lines))

	s.session.Mirror.Record(ctx, EventPurchase, params)

	return Receipt{
		OrderID:      orderID,
		Total:        total,
		Currency:     s.currency,
		Items:        lines,
		PurchaseJSON: analytics.Format(EventPurchase, params),
	}, nil
}

func newTransactionID() string {
	return uuid.NewString()[:16]
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func linesTotal(lines []cart.Item) float64 {
	items := make([]*cart.Item, len(lines))
	for i := range lines {
		items[i] = &lines[i]
	}
	return roundCents(cart.Total(items))
}
