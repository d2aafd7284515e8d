package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo read-only dashboard queries.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository builds the adapter.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

func (r *AnalyticsRepo) OrderCountsByStatus(ctx context.Context) (map[entity.OrderStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.OrderStatus]int)
	for rows.Next() {
		var st entity.OrderStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[st] = n
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> $1`, entity.OrderCancelled,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepo) OrdersSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recent orders: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepo) StockCounts(ctx context.Context, kind entity.CatalogKind) (repository.StockCounts, error) {
	var c repository.StockCounts
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE quantity > 0),
		       COUNT(*) FILTER (WHERE quantity = 0)
		FROM products WHERE kind = $1`, kind,
	).Scan(&c.InStock, &c.OutOfStock)
	if err != nil {
		return repository.StockCounts{}, fmt.Errorf("count stock: %w", err)
	}
	return c, nil
}
