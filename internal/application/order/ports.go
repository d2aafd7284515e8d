package order

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

// TxRunner runs checkout in one database transaction.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		orders repository.OrderRepository,
	) error) error
}

// Notifier tells people about order events. Implementations must not block.
type Notifier interface {
	OrderPlaced(o *entity.Order)
	OrderReady(o *entity.Order)
}

// ReceiptGenerator renders the printable pickup receipt of an order.
type ReceiptGenerator interface {
	Generate(o *entity.Order) ([]byte, error)
}
