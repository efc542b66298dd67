package cart

import (
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// Store holds the line items of one shopping session in insertion order.
type Store struct {
	mu    sync.Mutex
	items []*Item
}

func NewStore() *Store {
	return &Store{}
}

// AddItem appends item without looking for an existing line with the same
// product ID. Callers that want one line per product check FindItem first,
// or use Add.
func (s *Store) AddItem(item *Item) {
	if item == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// FindItem returns the first line whose product ID equals id.
func (s *Store) FindItem(id string) (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *Store) find(id string) (*Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// RemoveItem removes item by identity. It is a no-op when item is not held.
func (s *Store) RemoveItem(item *Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(item)
}

func (s *Store) remove(item *Item) {
	for i, it := range s.items {
		if it == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns the current lines. The slice is fresh but the items are
// shared with the store.
func (s *Store) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

// Add increments the line for p by qty, inserting a new line if none exists.
// Non-positive quantities are treated as 1.
func (s *Store) Add(p catalog.Product, qty int) *Item {
	if qty <= 0 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.find(p.ID); ok {
		it.Quantity += qty
		return it
	}
	it := &Item{Product: p, Quantity: qty}
	s.items = append(s.items, it)
	return it
}

// Increment adds one to the line for id.
func (s *Store) Increment(id string) (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.find(id)
	if !ok {
		return nil, false
	}
	it.Quantity++
	return it, true
}

// Decrement subtracts one from the line for id and drops the line once it
// would fall below one. removed reports whether the line was dropped.
func (s *Store) Decrement(id string) (it *Item, removed bool, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, found = s.find(id)
	if !found {
		return nil, false, false
	}
	if it.Quantity > 1 {
		it.Quantity--
		return it, false, true
	}
	s.remove(it)
	return it, true, true
}

// Lines returns a copy of every line taken under the store lock.
func (s *Store) Lines() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

// TakeAll returns copies of every line and empties the cart under one lock.
func (s *Store) TakeAll() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	s.items = nil
	return out
}

// Line returns a copy of the line for id.
func (s *Store) Line(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.find(id)
	if !ok {
		return Item{}, false
	}
	return *it, true
}
