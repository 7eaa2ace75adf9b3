// Package cart holds the shopper's in-progress selection. The store is an
// explicit container rebuilt from the session on each request and written
// back after mutations; it is never process-wide state.
package cart

import "sync"

// Product is the subset of catalog data a cart line needs to render and
// price itself. Prices are CAD amounts as supplied by the backend.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	PriceCAD float64 `json:"price_cad"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Line pairs a product with a positive quantity. A cart holds at most one
// line per product ID.
type Line struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Store maintains the ordered set of cart lines. Mutations are atomic with
// respect to readers; insertion order is preserved for display stability.
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart store.
func New() *Store {
	return &Store{}
}

// FromLines rebuilds a store from previously persisted lines, dropping any
// entries that violate the invariants (non-positive quantity, duplicate
// product ID).
func FromLines(lines []Line) *Store {
	s := &Store{}
	for _, ln := range lines {
		if ln.Quantity < 1 {
			continue
		}
		s.Add(ln.Product, ln.Quantity)
	}
	return s
}

// Add merges quantity into the existing line for the product, or appends a
// new line. Quantities below 1 are treated as 1.
func (s *Store) Add(p Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			s.lines[i].Quantity += quantity
			return
		}
	}
	s.lines = append(s.lines, Line{Product: p, Quantity: quantity})
}

// Remove deletes the line for the product ID; absent IDs are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID int64) {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to the given absolute value.
// A quantity of zero or less removes the line. Unknown product IDs are a
// no-op: updating never creates a line.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Total returns the sum of price × quantity across all lines, recomputed on
// every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, ln := range s.lines {
		total += ln.Product.PriceCAD * float64(ln.Quantity)
	}
	return total
}

// ItemCount returns the sum of quantities across all lines (units, not
// distinct products).
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, ln := range s.lines {
		count += ln.Quantity
	}
	return count
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return nil
	}
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	return s.Len() == 0
}
