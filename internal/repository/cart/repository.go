package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// GetByUser returns domain.ErrNotFound when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem creates the cart if absent and upserts a line for the product,
	// merging quantity when the product is already present.
	AddItem(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.Cart, error)
	// UpdateItemQuantity overwrites a line's quantity.
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	// RemoveItem deletes a line.
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	// Clear removes all lines and zeroes the totals. It is a no-op when the
	// user has no cart.
	Clear(ctx context.Context, userID string) error
}
