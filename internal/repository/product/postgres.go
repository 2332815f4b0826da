package product

import (
	"context"
	"errors"
	"fmt"
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

const productColumns = `id::text, name, description, price, category, brand, image_url, stock, rating, num_reviews, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryProducts(ctx, q)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}

	const reviewsQ = `
SELECT id::text, product_id::text, user_id::text, user_name, rating, comment, created_at, updated_at
FROM product_reviews
WHERE product_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, reviewsQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		p.Reviews = append(p.Reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price, category, brand, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns + `
`
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Price, p.Category, p.Brand, p.ImageURL, p.Stock))
	if err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%s", out.ID, out.Name)
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name        = COALESCE($2, name),
    description = COALESCE($3, description),
    price       = COALESCE($4, price),
    category    = COALESCE($5, category),
    brand       = COALESCE($6, brand),
    stock       = COALESCE($7, stock),
    image_url   = COALESCE($8, image_url),
    updated_at  = now()
WHERE id = $1
RETURNING ` + productColumns + `
`
	out, err := scanProduct(r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.Price, in.Category, in.Brand, in.Stock, in.ImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) BulkCreate(ctx context.Context, ps []domain.Product) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (name, description, price, category, brand, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	inserted := 0
	for _, p := range ps {
		if _, err := tx.Exec(ctx, q, p.Name, p.Description, p.Price, p.Category, p.Brand, p.ImageURL, p.Stock); err != nil {
			r.logger.Printf("product repo: bulk create name=%s error=%v", p.Name, err)
			return 0, err
		}
		inserted++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *postgresRepo) Search(ctx context.Context, f SearchFilter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE stock > 0`
	var args []interface{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		q += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n)
	}
	if f.Category != "" && f.Category != "All" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		q += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		q += fmt.Sprintf(" AND price <= $%d", len(args))
	}

	switch f.SortBy {
	case "price-low":
		q += " ORDER BY price ASC"
	case "price-high":
		q += " ORDER BY price DESC"
	case "name":
		q += " ORDER BY name ASC"
	default:
		q += " ORDER BY created_at DESC"
	}

	return r.queryProducts(ctx, q, args...)
}

func (r *postgresRepo) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	const q = `
SELECT name
FROM products
WHERE name ILIKE $1
ORDER BY name ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE stock <= $1 ORDER BY stock ASC`
	return r.queryProducts(ctx, q, threshold)
}

// UpsertReview inserts or replaces the caller's review and recomputes the
// product's aggregate rating from all current reviews in the same transaction.
func (r *postgresRepo) UpsertReview(ctx context.Context, rev domain.Review) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const upsertQ = `
INSERT INTO product_reviews (product_id, user_id, user_name, rating, comment)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_id, user_id) DO UPDATE SET
    rating = EXCLUDED.rating,
    comment = EXCLUDED.comment,
    user_name = EXCLUDED.user_name,
    updated_at = now()
`
	if _, err := tx.Exec(ctx, upsertQ, rev.ProductID, rev.UserID, rev.UserName, rev.Rating, rev.Comment); err != nil {
		r.logger.Printf("product repo: upsert review product_id=%s user_id=%s error=%v", rev.ProductID, rev.UserID, err)
		return nil, err
	}

	const recomputeQ = `
UPDATE products
SET rating = COALESCE((SELECT AVG(rating) FROM product_reviews WHERE product_id = $1), 0),
    num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = $1),
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns + `
`
	out, err := scanProduct(tx.QueryRow(ctx, recomputeQ, rev.ProductID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) queryProducts(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: query error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Brand, &p.ImageURL, &p.Stock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
