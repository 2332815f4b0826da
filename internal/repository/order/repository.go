package order

import (
	"context"

	"storefront/internal/domain"
)

// CreateInput carries everything the checkout transaction persists.
type CreateInput struct {
	UserID          string
	Items           []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	ItemsPrice      int64
	TaxPrice        int64
	ShippingPrice   int64
	TotalPrice      int64
	GatewayOrderID  string
}

// Summary is the flattened admin listing row.
type Summary struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Total    int64  `json:"total"`
	Status   string `json:"status"`
	Date     string `json:"date"`
}

type Repository interface {
	// Create decrements stock for every item with an atomic conditional
	// update, persists the order and its items, and deletes the user's cart,
	// all in one transaction. It returns *domain.InsufficientStockError when
	// any decrement would drive stock negative.
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]Summary, error)
	// MarkPaid records the payment result and moves the order to processing.
	// The update is conditioned on the order being unpaid and still pending,
	// so re-verification cannot overwrite an earlier confirmation and a late
	// confirmation cannot resurrect a cancelled order.
	MarkPaid(ctx context.Context, orderID string, res domain.PaymentResult) error
	// CancelAndRestock sets status to cancelled and restores every item's
	// quantity, conditioned on the order still being in fromStatus.
	CancelAndRestock(ctx context.Context, orderID, fromStatus string) error
	// SetStatus applies a non-cancelling transition and its timestamps,
	// conditioned on the order still being in fromStatus.
	SetStatus(ctx context.Context, orderID, fromStatus, toStatus string) error
	Count(ctx context.Context) (int, error)
	TotalRevenue(ctx context.Context) (int64, error)
	// HasDeliveredProduct reports whether the user has a delivered order
	// containing the product.
	HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error)
}
