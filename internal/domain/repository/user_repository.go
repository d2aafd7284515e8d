package repository

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// UserRepository is the persistence port for accounts (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	// ListWithOrderCount returns every user, newest first.
	ListWithOrderCount(ctx context.Context) ([]*entity.UserSummary, error)
	// ListByIDs returns the users whose id is in ids.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	// ListWithOrders returns users that placed at least one order.
	ListWithOrders(ctx context.Context) ([]*entity.User, error)
}
