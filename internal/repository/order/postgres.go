package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `
id::text, user_id::text, payment_method,
items_price, tax_price, shipping_price, total_price,
status, is_paid, paid_at, is_delivered, delivered_at, shipped_at,
ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_pincode, ship_country,
gateway_order_id, payment_id, payment_status, payment_signature, payment_update_time,
created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional decrement: the WHERE clause is the authoritative stock
	// check, so a concurrent checkout that got there first fails this one
	// instead of driving stock negative.
	for _, item := range in.Items {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var available int
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&available)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, domain.ErrNotFound
				}
				return nil, err
			}
			r.logger.Printf("order repo: stock conflict product_id=%s requested=%d available=%d", item.ProductID, item.Quantity, available)
			return nil, &domain.InsufficientStockError{
				ProductName: item.Name,
				Available:   available,
				Requested:   item.Quantity,
			}
		}
	}

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (
    user_id, payment_method,
    items_price, tax_price, shipping_price, total_price,
    ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_pincode, ship_country,
    gateway_order_id
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id::text
`,
		in.UserID, in.PaymentMethod,
		in.ItemsPrice, in.TaxPrice, in.ShippingPrice, in.TotalPrice,
		in.ShippingAddress.FullName, in.ShippingAddress.Phone, in.ShippingAddress.Street,
		in.ShippingAddress.City, in.ShippingAddress.State, in.ShippingAddress.Pincode, in.ShippingAddress.Country,
		in.GatewayOrderID,
	).Scan(&orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, name, quantity, price, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, item.ProductID, item.Name, item.Quantity, item.Price, item.ImageURL); err != nil {
			return nil, err
		}
	}

	// Cart rows cascade from the cart itself.
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user_id=%s total=%d", orderID, in.UserID, in.TotalPrice)
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `SELECT` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.itemsFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]Summary, error) {
	const q = `
SELECT o.id::text, u.name, o.total_price, o.status, to_char(o.created_at, 'YYYY-MM-DD')
FROM orders o
JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Customer, &s.Total, &s.Status, &s.Date); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) MarkPaid(ctx context.Context, orderID string, res domain.PaymentResult) error {
	const q = `
UPDATE orders
SET is_paid = true,
    paid_at = now(),
    status = 'processing',
    payment_id = $2,
    payment_status = $3,
    gateway_order_id = $4,
    payment_signature = $5,
    payment_update_time = $6,
    updated_at = now()
WHERE id = $1 AND is_paid = false AND status = 'pending'
`
	cmd, err := r.pool.Exec(ctx, q, orderID, res.PaymentID, res.Status, res.GatewayOrderID, res.Signature, res.UpdateTime)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Already paid, or no longer pending because a cancel won the race.
		// Callers re-read the order; re-verification of a paid order is a
		// no-op and a cancelled order stays cancelled.
		return nil
	}
	r.logger.Printf("order repo: marked paid id=%s payment_id=%s", orderID, res.PaymentID)
	return nil
}

func (r *postgresRepo) CancelAndRestock(ctx context.Context, orderID, fromStatus string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status = $2
`, orderID, fromStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
UPDATE products p
SET stock = p.stock + oi.quantity, updated_at = now()
FROM order_items oi
WHERE oi.order_id = $1 AND oi.product_id = p.id
`, orderID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: cancelled id=%s from=%s", orderID, fromStatus)
	return nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	var q string
	switch toStatus {
	case domain.OrderStatusShipped:
		q = `UPDATE orders SET status = $3, shipped_at = now(), updated_at = now() WHERE id = $1 AND status = $2`
	case domain.OrderStatusDelivered:
		q = `UPDATE orders SET status = $3, is_delivered = true, delivered_at = now(), updated_at = now() WHERE id = $1 AND status = $2`
	default:
		q = `UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	}
	cmd, err := r.pool.Exec(ctx, q, orderID, fromStatus, toStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid = true`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepo) HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1
    FROM orders o
    JOIN order_items oi ON oi.order_id = o.id
    WHERE o.user_id = $1 AND o.is_delivered = true AND oi.product_id = $2
)
`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, userID, productID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, name, quantity, price, image_url
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var paymentID, paymentStatus, gatewayOrderID, signature, updateTime string
	if err := row.Scan(
		&o.ID, &o.UserID, &o.PaymentMethod,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.Status, &o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.ShippedAt,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Street,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.Pincode, &o.ShippingAddress.Country,
		&gatewayOrderID, &paymentID, &paymentStatus, &signature, &updateTime,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if paymentID != "" || paymentStatus != "" || gatewayOrderID != "" {
		o.PaymentResult = &domain.PaymentResult{
			PaymentID:      paymentID,
			Status:         paymentStatus,
			GatewayOrderID: gatewayOrderID,
			Signature:      signature,
			UpdateTime:     updateTime,
		}
	}
	return &o, nil
}
