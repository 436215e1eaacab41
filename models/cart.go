package models

import "time"

// DefaultMaxStock is the permissive ceiling applied when a product's stock
// is unknown at add-time.
const DefaultMaxStock = 999

// CartItem is one line in a cart, keyed by product name. Price is captured
// at add-time and not re-fetched. MaxStock is the last known stock ceiling
// for the product and caps the quantity on every mutation.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
	MaxStock int     `json:"max_stock"`
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total is the sum of price * quantity over all lines.
func (c *Cart) Total() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// Count is the sum of quantities over all lines. A line with a missing
// quantity counts as one rather than dropping out of the badge count.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		if item.Quantity > 0 {
			count += item.Quantity
		} else {
			count++
		}
	}
	return count
}
