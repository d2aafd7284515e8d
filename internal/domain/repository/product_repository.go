package repository

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// ProductRepository is the persistence port for catalog products (DIP).
// Lookups return (nil, nil) when nothing matches.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	// FindByName matches the name exactly (case-sensitive) within a catalog kind.
	FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.Product, error)
	ListAll(ctx context.Context, kind entity.CatalogKind) ([]*entity.Product, error)
	// ListInStock returns products with quantity > 0 ordered by category, then name.
	ListInStock(ctx context.Context, kind entity.CatalogKind) ([]*entity.Product, error)
	// ZeroQuantity sets quantity = 0 for every id in one statement and returns the affected count.
	ZeroQuantity(ctx context.Context, ids []string) (int64, error)
}
