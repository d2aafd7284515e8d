package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// StockCounts in-stock and sold-out product counts for one catalog kind.
type StockCounts struct {
	InStock    int
	OutOfStock int
}

// AnalyticsRepository read-only queries behind the admin dashboard.
type AnalyticsRepository interface {
	// OrderCountsByStatus returns a count per status. Statuses with no orders are absent.
	OrderCountsByStatus(ctx context.Context) (map[entity.OrderStatus]int, error)
	// Revenue sums the totals of every non-cancelled order.
	Revenue(ctx context.Context) (decimal.Decimal, error)
	// OrdersSince counts orders created at or after since.
	OrdersSince(ctx context.Context, since time.Time) (int, error)
	StockCounts(ctx context.Context, kind entity.CatalogKind) (StockCounts, error)
}
