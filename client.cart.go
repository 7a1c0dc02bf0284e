package main

import (
	"sync"
)

// CartItem represents one selected book inside a cart. The title and
// price are snapshotted at the time the book is added: a later catalog
// update does not reprice an already carted item.
type CartItem struct {
	BookID   int     `json:"bookId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart holds the books a browsing session selected. It lives in memory
// only and is owned by whoever builds it, so tests and views can each
// get their own instance. A cart never holds two entries for the same
// book identifier: adding an already carted book grows its quantity.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart provides an empty ready to use cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts an item into the cart, merging it by book identifier
// with any existing entry by summing quantities.
func (c *Cart) Add(item CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].BookID == item.BookID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove drops the whole entry matching the book identifier.
// Removing an absent identifier does nothing.
func (c *Cart) Remove(bookID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].BookID == bookID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart whatever its current size.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart content.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of distinct carted books.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// TotalQuantity sums all carted quantities. This feeds the nav badge.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal computes the cart value from the snapshotted prices.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := 0.0
	for _, item := range c.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}
