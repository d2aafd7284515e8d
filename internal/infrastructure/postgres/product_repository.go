package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, kind, name, image_url, price, quantity, category, description, planting_instructions, created_at, updated_at`

// ProductRepo implements ProductRepository on PostgreSQL (pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass the pool or a tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserts a product. When a concurrent transaction already committed the same kind and
// name, the sheet-managed fields of that row are overwritten instead and p.ID takes its id.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ON CONSTRAINT products_kind_name_key DO UPDATE
		SET image_url = EXCLUDED.image_url, price = EXCLUDED.price, quantity = EXCLUDED.quantity,
		    category = EXCLUDED.category, description = EXCLUDED.description,
		    planting_instructions = EXCLUDED.planting_instructions, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.Kind, p.Name, p.ImageURL, p.Price, p.Quantity, p.Category,
		p.Description, p.PlantingInstructions, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update rewrites the sheet-managed fields. ID, kind, name and created_at never change.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET image_url = $2, price = $3, quantity = $4, category = $5,
		    description = $6, planting_instructions = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ImageURL, p.Price, p.Quantity, p.Category, p.Description, p.PlantingInstructions, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByIDs loads several products at once. Unknown ids are skipped.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, ids)
}

func (r *ProductRepo) FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE kind = $1 AND name = $2`, kind, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) ListAll(ctx context.Context, kind entity.CatalogKind) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE kind = $1 ORDER BY name`, kind)
}

func (r *ProductRepo) ListInStock(ctx context.Context, kind entity.CatalogKind) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE kind = $1 AND quantity > 0
		ORDER BY category ASC, name ASC`, kind)
}

func (r *ProductRepo) ZeroQuantity(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = 0, updated_at = now() WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("zero product quantities: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.ImageURL, &p.Price, &p.Quantity, &p.Category,
		&p.Description, &p.PlantingInstructions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
