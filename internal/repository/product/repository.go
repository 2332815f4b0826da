package product

import (
	"context"

	"storefront/internal/domain"
)

// SearchFilter composes independent optional filters; absent fields apply no
// constraint. Products with zero stock are always excluded.
type SearchFilter struct {
	// Query matches name, description or category, case-insensitive substring.
	Query string
	// Category filters on exact category; "" and "All" mean no filter.
	Category string
	// MinPrice/MaxPrice are inclusive bounds when set.
	MinPrice *int64
	MaxPrice *int64
	// SortBy is one of "price-low", "price-high", "name", "newest".
	// Unrecognized values sort newest-first.
	SortBy string
}

// UpdateInput carries a partial product update; nil fields keep the stored
// value.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Brand       *string
	Stock       *int
	ImageURL    *string
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, ps []domain.Product) (int, error)
	Search(ctx context.Context, f SearchFilter) ([]domain.Product, error)
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
	Count(ctx context.Context) (int, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	UpsertReview(ctx context.Context, rev domain.Review) (*domain.Product, error)
}
