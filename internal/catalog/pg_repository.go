package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const serviceColumns = `id, name, description, category, duration_minutes, price_cents, active, created_at, updated_at`
const productColumns = `id, name, sku, brand, price_cents, stock, active, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Category,
		&s.DurationMinutes,
		&s.PriceCents,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.Brand,
		&p.PriceCents,
		&p.Stock,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Services

func (r *PgRepository) CreateService(ctx context.Context, s *Service) (*Service, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, name, description, category, duration_minutes, price_cents, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		RETURNING `+serviceColumns+`
	`, id, s.Name, s.Description, s.Category, s.DurationMinutes, s.PriceCents)
	return scanService(row)
}

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	return scanService(row)
}

func (r *PgRepository) UpdateService(ctx context.Context, s *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $2,
		    description = $3,
		    category = $4,
		    duration_minutes = $5,
		    price_cents = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+serviceColumns+`
	`, s.ID, s.Name, s.Description, s.Category, s.DurationMinutes, s.PriceCents)
	return scanService(row)
}

func (r *PgRepository) ListServices(ctx context.Context, includeInactive bool) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE active OR $1
		ORDER BY category, name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *PgRepository) DeactivateService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services SET active = false, updated_at = now() WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Products

func (r *PgRepository) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, sku, brand, price_cents, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		RETURNING `+productColumns+`
	`, id, p.Name, p.SKU, p.Brand, p.PriceCents, p.Stock)

	created, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *PgRepository) UpdateProduct(ctx context.Context, p *Product) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2,
		    sku = $3,
		    brand = $4,
		    price_cents = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns+`
	`, p.ID, p.Name, p.SKU, p.Brand, p.PriceCents)
	return scanProduct(row)
}

func (r *PgRepository) ListProducts(ctx context.Context, includeInactive bool) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE active OR $1
		ORDER BY name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	// Guarded update keeps stock non-negative without a read-modify-write race.
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2,
		    updated_at = now()
		WHERE id = $1
		  AND stock + $2 >= 0
		RETURNING `+productColumns+`
	`, id, delta)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			// Either the product is missing or the delta would go negative.
			if _, getErr := r.GetProductByID(ctx, id); getErr == nil {
				return nil, ErrInsufficientStock
			}
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PgRepository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET active = false, updated_at = now() WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
