package domain

import "time"

// Cart holds a user's selected products. TotalItems and TotalPrice are cached
// but always recomputed from the items inside the same transaction as any
// mutation, so they can never drift.
type Cart struct {
	ID         string     `json:"id,omitempty"`
	UserID     string     `json:"-"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
	Items      []CartItem `json:"cartItems"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CartItem references a product with a quantity and a price snapshot taken at
// add time.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"-"`
	ProductID string    `json:"product"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// EmptyCart is the shape returned when a user has no cart yet.
func EmptyCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}
