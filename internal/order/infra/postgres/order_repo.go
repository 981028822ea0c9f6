package postgres

import (
	"context"
	"errors"
	"fmt"

	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/order/app"
	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateOrder persists the order, its details and one conditional stock
// decrement per line inside a single transaction. The decrement only applies
// while stock covers the quantity; a failed guard aborts everything and is
// reported as a *checkoutdomain.StockError so the caller knows which line
// lost the race.
func (r *OrderRepo) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	var created domain.Order

	err := r.execTX(ctx, func(tx pgx.Tx) error {
		for _, d := range o.Details {
			if err := r.decrementStock(ctx, tx, d); err != nil {
				return err
			}
		}

		var orderID uuid.UUID
		err := tx.QueryRow(ctx, `INSERT INTO orders
			(user_id, status, total_cents, shipping_address, notes, order_date)
			VALUES ($1,$2,$3,$4,nullif($5,''),$6)
			RETURNING id, order_date, updated_at`,
			o.UserID, string(o.Status), o.TotalCents, o.ShippingAddress, o.Notes, o.OrderDate).
			Scan(&orderID, &o.OrderDate, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		details := make([]domain.Detail, 0, len(o.Details))
		for i, d := range o.Details {
			productID, err := uuid.Parse(d.ProductID)
			if err != nil {
				return fmt.Errorf("detail %d: invalid product id: %w", i, err)
			}

			var detailID uuid.UUID
			err = tx.QueryRow(ctx, `INSERT INTO order_details
				(order_id, product_id, product_name, quantity, unit_cents, weight, weight_unit, flavor)
				VALUES ($1,$2,$3,$4,$5,$6,$7,nullif($8,''))
				RETURNING id`,
				orderID, productID, d.ProductName, d.Quantity, d.UnitCents,
				d.Weight, d.WeightUnit, d.Flavor).
				Scan(&detailID)
			if err != nil {
				return fmt.Errorf("insert detail %d: %w", i, err)
			}

			d.ID = detailID.String()
			d.OrderID = orderID.String()
			details = append(details, d)
		}

		created = o
		created.ID = orderID.String()
		created.Details = details
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

// decrementStock is the sole serialization point for stock: the UPDATE only
// matches while stock still covers the quantity, so two checkouts contending
// for the last unit cannot both succeed.
func (r *OrderRepo) decrementStock(ctx context.Context, tx pgx.Tx, d domain.Detail) error {
	productID, err := uuid.Parse(d.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", d.ProductID, err)
	}

	tag, err := tx.Exec(ctx, `UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND is_available AND stock_quantity >= $2`,
		productID, d.Quantity)
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", d.ProductID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Guard failed: report why with the current counter.
	var available int32
	var isAvailable bool
	err = tx.QueryRow(ctx, `SELECT stock_quantity, is_available FROM products WHERE id=$1`, productID).
		Scan(&available, &isAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return &checkoutdomain.StockError{Problems: []checkoutdomain.Problem{{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Reason:      checkoutdomain.ReasonNotFound,
		}}}
	}
	if err != nil {
		return fmt.Errorf("inspect stock %s: %w", d.ProductID, err)
	}

	problem := checkoutdomain.Problem{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Reason:      checkoutdomain.ReasonInsufficientStock,
		Requested:   d.Quantity,
		Available:   available,
	}
	if !isAvailable {
		problem.Reason = checkoutdomain.ReasonUnavailable
		problem.Requested = 0
		problem.Available = 0
	}
	return &checkoutdomain.StockError{Problems: []checkoutdomain.Problem{problem}}
}

const orderColumns = `id, user_id, status, total_cents, shipping_address, coalesce(notes, ''), order_date, updated_at`

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	orders := []domain.Order{o}
	if err := r.attachDetails(ctx, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY order_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepo) ListAll(ctx context.Context, f app.Filter) ([]domain.Order, error) {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::timestamptz IS NULL OR order_date >= $2)
		  AND ($3::timestamptz IS NULL OR order_date <= $3)
		  AND ($4 = '' OR user_id ILIKE '%' || $4 || '%' OR shipping_address ILIKE '%' || $4 || '%')
		ORDER BY order_date DESC`,
		status, f.From, f.To, f.Search)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, domain.Status, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, "", app.ErrNotFound
	}

	var updated domain.Order
	var old domain.Status

	err = r.execTX(ctx, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).
			Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return app.ErrNotFound
		}
		if err != nil {
			return err
		}

		// Legacy rows may carry "Completed"; normalize on read.
		old, err = domain.ParseStatus(current)
		if err != nil {
			old = domain.Status(current)
		}

		row := tx.QueryRow(ctx, `UPDATE orders SET status=$2, updated_at=now()
			WHERE id=$1 RETURNING `+orderColumns, orderID, string(status))
		updated, err = scanOrder(row)
		return err
	})
	if err != nil {
		return domain.Order{}, "", err
	}

	orders := []domain.Order{updated}
	if err := r.attachDetails(ctx, orders); err != nil {
		return domain.Order{}, "", err
	}
	return orders[0], old, nil
}

func (r *OrderRepo) collect(ctx context.Context, rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachDetails(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) attachDetails(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i := range orders {
		id, err := uuid.Parse(orders[i].ID)
		if err != nil {
			return fmt.Errorf("invalid order id %q: %w", orders[i].ID, err)
		}
		ids = append(ids, id)
		byID[orders[i].ID] = &orders[i]
	}

	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, product_name,
		quantity, unit_cents, weight, weight_unit, coalesce(flavor, '')
		FROM order_details WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load order details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Detail
		var id, orderID, productID uuid.UUID
		if err := rows.Scan(&id, &orderID, &productID, &d.ProductName,
			&d.Quantity, &d.UnitCents, &d.Weight, &d.WeightUnit, &d.Flavor); err != nil {
			return err
		}
		d.ID = id.String()
		d.OrderID = orderID.String()
		d.ProductID = productID.String()

		if o, ok := byID[d.OrderID]; ok {
			o.Details = append(o.Details, d)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var id uuid.UUID
	var status string
	err := row.Scan(&id, &o.UserID, &status, &o.TotalCents,
		&o.ShippingAddress, &o.Notes, &o.OrderDate, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = id.String()

	if parsed, err := domain.ParseStatus(status); err == nil {
		o.Status = parsed
	} else {
		o.Status = domain.Status(status)
	}
	return o, nil
}
