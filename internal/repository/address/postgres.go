package address

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

const addressColumns = `id::text, user_id::text, full_name, phone, street, city, state, pincode, country, created_at`

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	const q = `
INSERT INTO addresses (user_id, full_name, phone, street, city, state, pincode, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + addressColumns + `
`
	country := a.Country
	if country == "" {
		country = "India"
	}
	return scanAddress(r.pool.QueryRow(ctx, q, a.UserID, a.FullName, a.Phone, a.Street, a.City, a.State, a.Pincode, country))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`
	out, err := scanAddress(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street, &a.City, &a.State, &a.Pincode, &a.Country, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
