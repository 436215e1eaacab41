package models

// Product is a catalog entry. Stock backs the cart's maxStock ceiling and
// is deducted when an order containing the product is created.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Stock       int     `json:"stock"`
}
