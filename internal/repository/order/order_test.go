package order

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/migrate"
	cartrepo "storefront/internal/repository/cart"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, product_reviews, addresses, tokens, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func setupSchema(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash) VALUES ('Test', $1, 'x') RETURNING id::text
`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, price int64, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, price, stock) VALUES ($1, $2, $3) RETURNING id::text
`, name, price, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func productStock(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock); err != nil {
		t.Fatalf("select stock: %v", err)
	}
	return stock
}

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: "Asha", Phone: "9", Street: "1 Lane",
		City: "Pune", State: "MH", Pincode: "411001", Country: "India",
	}
}

func TestPostgres_CreateDecrementsStockAndClearsCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	setupSchema(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "order@example.com")
	keyboardID := insertProduct(ctx, t, pool, "Keyboard", 500, 5)
	mouseID := insertProduct(ctx, t, pool, "Mouse", 300, 2)

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.AddItem(ctx, userID, domain.Product{ID: keyboardID, Name: "Keyboard", Price: 500}, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	repo := NewPostgres(pool, nil)
	o, err := repo.Create(ctx, CreateInput{
		UserID: userID,
		Items: []domain.OrderItem{
			{ProductID: keyboardID, Name: "Keyboard", Quantity: 2, Price: 500},
			{ProductID: mouseID, Name: "Mouse", Quantity: 1, Price: 300},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   domain.PaymentMethodCashOnDelivery,
		ItemsPrice:      1300, TaxPrice: 65, ShippingPrice: 0, TotalPrice: 1365,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Status != domain.OrderStatusPending || len(o.Items) != 2 {
		t.Fatalf("unexpected order %+v", o)
	}

	if got := productStock(ctx, t, pool, keyboardID); got != 3 {
		t.Fatalf("keyboard stock: got %d, want 3", got)
	}
	if got := productStock(ctx, t, pool, mouseID); got != 1 {
		t.Fatalf("mouse stock: got %d, want 1", got)
	}

	if _, err := carts.GetByUser(ctx, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cart should be deleted by checkout, got %v", err)
	}
}

func TestPostgres_CreateInsufficientStockAbortsWholeOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	setupSchema(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "order2@example.com")
	keyboardID := insertProduct(ctx, t, pool, "Keyboard", 500, 5)
	mouseID := insertProduct(ctx, t, pool, "Mouse", 300, 0)

	repo := NewPostgres(pool, nil)
	_, err := repo.Create(ctx, CreateInput{
		UserID: userID,
		Items: []domain.OrderItem{
			{ProductID: keyboardID, Name: "Keyboard", Quantity: 2, Price: 500},
			{ProductID: mouseID, Name: "Mouse", Quantity: 1, Price: 300},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   domain.PaymentMethodCashOnDelivery,
		ItemsPrice:      1300, TotalPrice: 1365,
	})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductName != "Mouse" || stockErr.Available != 0 {
		t.Fatalf("unexpected error detail %+v", stockErr)
	}

	// The keyboard decrement ran before the mouse failed; the rollback must
	// undo it.
	if got := productStock(ctx, t, pool, keyboardID); got != 5 {
		t.Fatalf("keyboard stock after rollback: got %d, want 5", got)
	}
	var orders int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders); err != nil {
		t.Fatal(err)
	}
	if orders != 0 {
		t.Fatalf("order persisted despite failed checkout")
	}
}

func TestPostgres_ConcurrentCheckoutNeverOversells(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	setupSchema(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Keyboard", 500, 3)
	repo := NewPostgres(pool, nil)

	// Two buyers want 2 each; stock covers only one of them.
	const buyers = 2
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		userID := insertUser(ctx, t, pool, fmt.Sprintf("buyer%d@example.com", i))
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, CreateInput{
				UserID: userID,
				Items: []domain.OrderItem{
					{ProductID: productID, Name: "Keyboard", Quantity: 2, Price: 500},
				},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodCashOnDelivery,
				ItemsPrice:      1000, TotalPrice: 1150,
			})
		}(i, userID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one checkout to win, got %d", succeeded)
	}
	if got := productStock(ctx, t, pool, productID); got != 1 {
		t.Fatalf("stock after concurrent checkout: got %d, want 1", got)
	}
}

func TestPostgres_CancelRestocksAndMarkPaidRespectsStatus(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	setupSchema(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "order3@example.com")
	productID := insertProduct(ctx, t, pool, "Keyboard", 500, 5)

	repo := NewPostgres(pool, nil)
	o, err := repo.Create(ctx, CreateInput{
		UserID: userID,
		Items: []domain.OrderItem{
			{ProductID: productID, Name: "Keyboard", Quantity: 2, Price: 500},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   domain.PaymentMethodGateway,
		ItemsPrice:      1000, TotalPrice: 1150,
		GatewayOrderID:  "gw_order_1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The gateway order id is readable back before payment.
	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PaymentResult == nil || got.PaymentResult.GatewayOrderID != "gw_order_1" {
		t.Fatalf("gateway order id not surfaced: %+v", got.PaymentResult)
	}

	if err := repo.CancelAndRestock(ctx, o.ID, domain.OrderStatusPending); err != nil {
		t.Fatalf("CancelAndRestock: %v", err)
	}
	if got := productStock(ctx, t, pool, productID); got != 5 {
		t.Fatalf("stock after cancel: got %d, want 5", got)
	}

	// A late payment confirmation must not touch the cancelled order.
	if err := repo.MarkPaid(ctx, o.ID, domain.PaymentResult{PaymentID: "pay_late", Status: "captured", GatewayOrderID: "gw_order_1"}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	got, err = repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsPaid || got.Status != domain.OrderStatusCancelled {
		t.Fatalf("cancelled order changed by MarkPaid: status=%q isPaid=%v", got.Status, got.IsPaid)
	}

	// Cancelling again from pending fails: the order is no longer pending.
	if err := repo.CancelAndRestock(ctx, o.ID, domain.OrderStatusPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
