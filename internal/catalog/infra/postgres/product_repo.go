package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, description, coalesce(brand, ''), coalesce(flavor, ''),
	coalesce(image_url, ''), price_cents, stock_quantity, weight, weight_unit,
	is_available, expiry_date, created_at, updated_at`

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO products
		(name, description, brand, flavor, image_url, price_cents, stock_quantity,
		 weight, weight_unit, is_available, expiry_date)
		VALUES ($1,$2,nullif($3,''),nullif($4,''),nullif($5,''),$6,$7,$8,$9,$10,$11)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Brand, p.Flavor, p.ImageURL, p.PriceCents,
		p.StockQuantity, p.Weight, p.WeightUnit, p.IsAvailable, p.ExpiryDate)

	return scanProduct(row)
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	row := r.pool.QueryRow(ctx, `UPDATE products SET
		name=$2, description=$3, brand=nullif($4,''), flavor=nullif($5,''),
		image_url=nullif($6,''), price_cents=$7, stock_quantity=$8, weight=$9,
		weight_unit=$10, is_available=$11, expiry_date=$12, updated_at=now()
		WHERE id=$1
		RETURNING `+productColumns,
		id, p.Name, p.Description, p.Brand, p.Flavor, p.ImageURL, p.PriceCents,
		p.StockQuantity, p.Weight, p.WeightUnit, p.IsAvailable, p.ExpiryDate)

	out, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, prodID)

	out, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur *uuid.UUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = &uid
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($3::uuid IS NULL OR id > $3)
		ORDER BY id
		LIMIT $2`,
		strings.TrimSpace(query), limit, cur)
	if err != nil {
		return nil, "", fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	var nextCursor string
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
		nextCursor = p.ID
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	if len(out) < limit {
		nextCursor = ""
	}
	return out, nextCursor, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var id uuid.UUID
	err := row.Scan(&id, &p.Name, &p.Description, &p.Brand, &p.Flavor, &p.ImageURL,
		&p.PriceCents, &p.StockQuantity, &p.Weight, &p.WeightUnit,
		&p.IsAvailable, &p.ExpiryDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id.String()
	return p, nil
}
