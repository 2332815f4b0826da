package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	Price       int64
	Category    string
	Brand       string
	Stock       int
}

// Apply inserts an admin account and a small catalog for manual testing.
// Running it twice is safe: the admin upserts on email and products are
// skipped when a row with the same name exists.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "Admin", "admin@storefront.local", "Admin123!"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	products := []productSeed{
		{
			Name:        "Wireless Keyboard",
			Description: "Compact 75% layout with hot-swappable switches",
			Price:       2499,
			Category:    "Electronics",
			Brand:       "Keychron",
			Stock:       40,
		},
		{
			Name:        "Ergonomic Mouse",
			Description: "Vertical grip mouse with six programmable buttons",
			Price:       1299,
			Category:    "Electronics",
			Brand:       "Logitech",
			Stock:       60,
		},
		{
			Name:        "Cotton T-Shirt",
			Description: "Plain crew neck tee, 180 gsm combed cotton",
			Price:       499,
			Category:    "Clothing",
			Brand:       "Basics",
			Stock:       120,
		},
		{
			Name:        "Stainless Water Bottle",
			Description: "1L double-walled bottle, keeps drinks cold for 12h",
			Price:       799,
			Category:    "Home",
			Brand:       "Milton",
			Stock:       80,
		},
	}

	for _, p := range products {
		if err := insertProductIfAbsent(ctx, pool, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, name, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password_hash, is_admin)
VALUES ($1, $2, $3, true)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, name, email, string(hashed))
	return err
}

func insertProductIfAbsent(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`, p.Name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	const q = `
INSERT INTO products (name, description, price, category, brand, stock)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Price, p.Category, p.Brand, p.Stock)
	return err
}
