package repository

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// OrderRepository is the persistence port for pickup orders (DIP).
type OrderRepository interface {
	// Create inserts the order and its items. Run it inside a transaction.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// List returns orders newest first, with items. An empty userID lists every order.
	List(ctx context.Context, userID string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
