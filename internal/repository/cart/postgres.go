package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	return fetchCart(ctx, r.pool, userID)
}

func (r *postgresRepo) AddItem(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING id::text
`, userID).Scan(&cartID)
	if err != nil {
		return nil, err
	}

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2
`, existingQty+quantity, lineID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, name, image_url, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, product.ID, product.Name, product.ImageURL, quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, userID)
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := cartIDForUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, itemID, cartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, userID)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := cartIDForUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, userID)
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := cartIDForUser(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func cartIDForUser(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return cartID, nil
}

// updateCartTotals recomputes the cached totals from the line items so they
// can never drift from the items themselves.
func updateCartTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_items = COALESCE((SELECT SUM(quantity) FROM cart_items WHERE cart_id = $1), 0),
    total_price = COALESCE((SELECT SUM(quantity * price) FROM cart_items WHERE cart_id = $1), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}

func fetchCart(ctx context.Context, pool *pgxpool.Pool, userID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, user_id::text, total_items, total_price, created_at, updated_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	err := pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalItems,
		&cart.TotalPrice,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, cart_id::text, product_id::text, name, image_url, quantity, price, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Name,
			&item.ImageURL,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
