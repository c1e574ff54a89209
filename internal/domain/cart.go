package domain

import (
	"maps"
	"time"
)

// Product is the purchasable unit a cart line refers to.
type Product struct {
	ID       int     `json:"id"`
	GameID   int     `json:"game_id"`
	Name     string  `json:"name"`
	PriceRUB float64 `json:"price_rub"`
}

// CartLineItem is one entry in the cart: a product plus the user-supplied
// purchase parameters (player id, server, ...) and a quantity.
type CartLineItem struct {
	Product  Product           `json:"product"`
	Inputs   map[string]string `json:"inputs,omitempty"`
	Quantity int               `json:"quantity"`
}

// SamePurchase reports whether another addition targets the same purchase:
// same product id and structurally equal inputs (same keys, same values,
// key order irrelevant). Two equal additions merge by summing quantity.
func (li CartLineItem) SamePurchase(other CartLineItem) bool {
	return li.Product.ID == other.Product.ID && maps.Equal(li.Inputs, other.Inputs)
}

// Cart holds the line items of one session.
type Cart struct {
	Items     []CartLineItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AddItem merges the item into the cart. A line with the same
// (product id, inputs) pair gains the added quantity; otherwise the item is
// appended. A non-positive quantity on the addition counts as 1.
func (c *Cart) AddItem(item CartLineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].SamePurchase(item) {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// AddItems applies AddItem for each element in order against the
// progressively updated list, so two colliding items in the same batch merge
// with each other.
func (c *Cart) AddItems(items []CartLineItem) {
	for _, item := range items {
		c.AddItem(item)
	}
}

// RemoveItem deletes the line item at index. Out-of-range indexes are a
// defined no-op.
func (c *Cart) RemoveItem(index int) {
	if index < 0 || index >= len(c.Items) {
		return
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

// UpdateQuantity sets the quantity of the line item at index. A quantity of
// zero or less removes the line. Out-of-range indexes are a no-op.
func (c *Cart) UpdateQuantity(index, quantity int) {
	if index < 0 || index >= len(c.Items) {
		return
	}
	if quantity <= 0 {
		c.RemoveItem(index)
		return
	}
	c.Items[index].Quantity = quantity
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalCount is the sum of all quantities.
func (c *Cart) TotalCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Product.PriceRUB * float64(item.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
