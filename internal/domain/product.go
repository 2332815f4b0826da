package domain

import "time"

// Product is a catalog entry. Stock is only mutated by order creation
// (decrement), cancellation (increment) and direct admin edits.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"numReviews"`
	Reviews     []Review  `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Review is owned by a product; at most one per (product, user) pair.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"-"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
