package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Created   int
	Updated   int
	Unchanged int
	Zeroed    int64
	// Products is the in-stock view after the pass, ordered by category then name.
	Products []*entity.Product
}

// Reconciler applies a record batch to the persisted catalog of one kind.
type Reconciler struct {
	tx    TxRunner
	now   func() time.Time
	newID func() string
	log   *logger.Logger
}

// NewReconciler builds the reconciler.
func NewReconciler(tx TxRunner, log *logger.Logger) *Reconciler {
	return &Reconciler{
		tx:    tx,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		log:   log.Component("catalog_reconciler"),
	}
}

// Reconcile runs in a single transaction:
//  1. products of kind whose name is not in records get quantity 0 (never deleted);
//  2. each record updates the product with the same exact name, or creates one; a create that
//     loses to a concurrent reconciliation falls back to updating the winner's row;
//  3. the in-stock products of kind are returned, category ascending.
//
// Records sharing a name are applied in order, so the last one wins.
func (r *Reconciler) Reconcile(ctx context.Context, kind entity.CatalogKind, records []catalog.Record) (*ReconcileResult, error) {
	if dups := catalog.DuplicateNames(records); len(dups) > 0 {
		r.log.Warn().Str("kind", string(kind)).Strs("names", dups).
			Msg("duplicate product names in sheet, last row wins")
	}

	res := &ReconcileResult{}
	err := r.tx.Run(ctx, func(products repository.ProductRepository) error {
		existing, err := products.ListAll(ctx, kind)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}

		incoming := make(map[string]struct{}, len(records))
		for _, rec := range records {
			incoming[rec.Name] = struct{}{}
		}
		var stale []string
		for _, p := range existing {
			if _, ok := incoming[p.Name]; !ok && p.Quantity > 0 {
				stale = append(stale, p.ID)
			}
		}
		if len(stale) > 0 {
			n, err := products.ZeroQuantity(ctx, stale)
			if err != nil {
				return fmt.Errorf("zero missing products: %w", err)
			}
			res.Zeroed = n
		}

		now := r.now()
		for _, rec := range records {
			p, err := products.FindByName(ctx, kind, rec.Name)
			if err != nil {
				return fmt.Errorf("find product %q: %w", rec.Name, err)
			}
			if p == nil {
				p = &entity.Product{ID: r.newID(), Kind: kind, Name: rec.Name, CreatedAt: now}
				apply(p, rec)
				p.UpdatedAt = now
				err = products.Create(ctx, p)
				if err == nil {
					res.Created++
					continue
				}
				if !errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("create product %q: %w", rec.Name, err)
				}
				// another reconciliation inserted the name after our lookup
				p, err = products.FindByName(ctx, kind, rec.Name)
				if err != nil {
					return fmt.Errorf("find product %q: %w", rec.Name, err)
				}
				if p == nil {
					return fmt.Errorf("create product %q: %w", rec.Name, domain.ErrConflict)
				}
			}
			if !differs(p, rec) {
				res.Unchanged++
				continue
			}
			apply(p, rec)
			p.UpdatedAt = now
			if err := products.Update(ctx, p); err != nil {
				return fmt.Errorf("update product %q: %w", rec.Name, err)
			}
			res.Updated++
		}

		res.Products, err = products.ListInStock(ctx, kind)
		if err != nil {
			return fmt.Errorf("list in-stock products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().Str("kind", string(kind)).
		Int("created", res.Created).Int("updated", res.Updated).
		Int("unchanged", res.Unchanged).Int64("zeroed", res.Zeroed).
		Int("in_stock", len(res.Products)).
		Msg("catalog reconciled")
	return res, nil
}

func apply(p *entity.Product, rec catalog.Record) {
	p.ImageURL = rec.ImageURL
	p.Price = rec.Price
	p.Quantity = rec.Quantity
	p.Category = rec.Category
	p.Description = rec.Description
	p.PlantingInstructions = rec.PlantingInstructions
}

func differs(p *entity.Product, rec catalog.Record) bool {
	return p.ImageURL != rec.ImageURL ||
		!p.Price.Equal(rec.Price) ||
		p.Quantity != rec.Quantity ||
		p.Category != rec.Category ||
		p.Description != rec.Description ||
		p.PlantingInstructions != rec.PlantingInstructions
}
