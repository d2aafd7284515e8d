package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, status, total, customer_name, customer_email, customer_phone, pickup_notes, created_at, updated_at`

// OrderRepo implements OrderRepository on PostgreSQL (pool or tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the adapter. Pass the pool or a tx.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserts the order header and its lines. Lines pointing at an unknown product
// return domain.ErrInvalidInput.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.UserID, o.Status, o.Total, o.CustomerName, o.CustomerEmail,
		nullIfEmpty(o.CustomerPhone), nullIfEmpty(o.PickupNotes), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = o.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: unknown product %s", domain.ErrInvalidInput, item.ProductID)
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) List(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus returns domain.ErrNotFound when the order does not exist.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// attachItems loads the lines of every order in one query.
func (r *OrderRepo) attachItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.q.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY p.name`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var phone, notes *string
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CustomerName, &o.CustomerEmail,
		&phone, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.CustomerPhone = derefStr(phone)
	o.PickupNotes = derefStr(notes)
	return &o, nil
}
