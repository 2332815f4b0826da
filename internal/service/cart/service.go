package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type productGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service keeps cart mutations consistent with product stock. The stock
// check here is advisory; checkout re-validates inside its transaction.
type Service struct {
	carts    cartrepo.Repository
	products productGetter
}

func New(carts cartrepo.Repository, products productGetter) *Service {
	return &Service{carts: carts, products: products}
}

// Get returns the user's cart, or an empty one when none exists yet.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EmptyCart(userID), nil
		}
		return nil, err
	}
	return c, nil
}

// AddItem puts quantity units of the product into the cart, merging with an
// existing line. The merged quantity may not exceed available stock.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	inCart := 0
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if c != nil {
		for _, item := range c.Items {
			if item.ProductID == productID {
				inCart = item.Quantity
				break
			}
		}
	}
	if inCart+quantity > p.Stock {
		return nil, &domain.InsufficientStockError{
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   inCart + quantity,
		}
	}
	return s.carts.AddItem(ctx, userID, *p, quantity)
}

// UpdateItem overwrites a line's quantity. Dropping a line goes through
// RemoveItem; a quantity below 1 is rejected.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var line *domain.CartItem
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			line = &c.Items[i]
			break
		}
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	p, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, &domain.InsufficientStockError{
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   quantity,
		}
	}
	return s.carts.UpdateItemQuantity(ctx, userID, itemID, quantity)
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.carts.RemoveItem(ctx, userID, itemID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	return s.carts.Clear(ctx, userID)
}
