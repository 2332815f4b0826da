package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/domain"
)

type stubProducts struct {
	byID map[string]*domain.Product
}

func (s *stubProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type stubCarts struct {
	byUser map[string]*domain.Cart
	nextID int
}

func newStubCarts() *stubCarts {
	return &stubCarts{byUser: map[string]*domain.Cart{}}
}

func (s *stubCarts) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	c, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (s *stubCarts) AddItem(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.Cart, error) {
	c, ok := s.byUser[userID]
	if !ok {
		c = &domain.Cart{ID: "c-" + userID, UserID: userID, Items: []domain.CartItem{}}
		s.byUser[userID] = c
	}
	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == product.ID {
			c.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.nextID++
		c.Items = append(c.Items, domain.CartItem{
			ID:        fmt.Sprintf("item-%d", s.nextID),
			CartID:    c.ID,
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}
	s.recompute(c)
	return s.GetByUser(ctx, userID)
}

func (s *stubCarts) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	c, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			s.recompute(c)
			return s.GetByUser(ctx, userID)
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCarts) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	c, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			s.recompute(c)
			return s.GetByUser(ctx, userID)
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCarts) Clear(ctx context.Context, userID string) error {
	if c, ok := s.byUser[userID]; ok {
		c.Items = []domain.CartItem{}
		s.recompute(c)
	}
	return nil
}

func (s *stubCarts) recompute(c *domain.Cart) {
	c.TotalItems = 0
	c.TotalPrice = 0
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
		c.TotalPrice += int64(item.Quantity) * item.Price
	}
}

func newTestService() (*Service, *stubCarts) {
	carts := newStubCarts()
	products := &stubProducts{byID: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Keyboard", Price: 500, Stock: 5},
		"p2": {ID: "p2", Name: "Mouse", Price: 300, Stock: 2},
	}}
	return New(carts, products), carts
}

func TestGetReturnsEmptyCartWhenAbsent(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TotalItems != 0 || c.TotalPrice != 0 {
		t.Fatalf("expected zero totals, got %+v", c)
	}
	if c.Items == nil || len(c.Items) != 0 {
		t.Fatalf("expected empty non-nil item slice, got %#v", c.Items)
	}
}

func TestAddItemTotals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	c, err := svc.AddItem(ctx, "u1", "p2", 1)
	if err != nil {
		t.Fatalf("add p2: %v", err)
	}
	if c.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", c.TotalItems)
	}
	if c.TotalPrice != 2*500+300 {
		t.Fatalf("expected total price 1300, got %d", c.TotalPrice)
	}
}

func TestAddItemMergesLines(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	c, err := svc.AddItem(ctx, "u1", "p1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", c.Items[0].Quantity)
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "u1", "p2", 3)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 3 {
		t.Fatalf("unexpected error detail: %+v", stockErr)
	}
}

func TestAddItemMergeExceedsStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p2", 2); err != nil {
		t.Fatal(err)
	}
	_, err := svc.AddItem(ctx, "u1", "p2", 1)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError on merge, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.AddItem(context.Background(), "u1", "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateItemRejectsQuantityBelowOne(t *testing.T) {
	svc, carts := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "u1", "p1", 2)
	if err != nil {
		t.Fatal(err)
	}
	itemID := c.Items[0].ID

	for _, quantity := range []int{0, -1} {
		_, err := svc.UpdateItem(ctx, "u1", itemID, quantity)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
	if got := carts.byUser["u1"].Items[0].Quantity; got != 2 {
		t.Fatalf("line mutated by rejected update, quantity %d", got)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "u1", "p1", 2)
	if err != nil {
		t.Fatal(err)
	}
	c, err = svc.RemoveItem(ctx, "u1", c.Items[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Items) != 0 || c.TotalPrice != 0 {
		t.Fatalf("expected empty cart after removal, got %+v", c)
	}
}

func TestUpdateItemExceedsStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "u1", "p2", 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.UpdateItem(ctx, "u1", c.Items[0].ID, 5)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func TestClear(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	c, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if c.TotalItems != 0 || len(c.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", c)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, ""); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("Get: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "", "p1", 1); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("AddItem: expected ErrNotAuthenticated, got %v", err)
	}
}
