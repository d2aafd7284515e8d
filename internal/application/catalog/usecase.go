package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

// UseCase is the catalog entry point used by the HTTP layer.
type UseCase struct {
	caches     map[entity.CatalogKind]*FreshnessCache
	reconciler *Reconciler
	products   repository.ProductRepository
	now        func() time.Time
	log        *logger.Logger
}

// NewUseCase builds the use case. One cache per catalog kind.
func NewUseCase(
	reconciler *Reconciler,
	products repository.ProductRepository,
	log *logger.Logger,
	caches ...*FreshnessCache,
) *UseCase {
	uc := &UseCase{
		caches:     make(map[entity.CatalogKind]*FreshnessCache, len(caches)),
		reconciler: reconciler,
		products:   products,
		now:        time.Now,
		log:        log.Component("catalog"),
	}
	for _, c := range caches {
		uc.caches[c.Kind()] = c
	}
	return uc
}

// ListProducts syncs the catalog of kind with the sheet snapshot and returns the in-stock products.
// When the sheet has never been readable the persisted in-stock view is served untouched.
func (uc *UseCase) ListProducts(ctx context.Context, kind entity.CatalogKind) ([]*entity.Product, error) {
	cache, err := uc.cache(kind)
	if err != nil {
		return nil, err
	}
	records, err := cache.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			uc.log.Warn().Err(err).Str("kind", string(kind)).Msg("skipping reconciliation, serving persisted catalog")
			return uc.products.ListInStock(ctx, kind)
		}
		return nil, err
	}
	res, err := uc.reconciler.Reconcile(ctx, kind, records)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s catalog: %w", kind, err)
	}
	return res.Products, nil
}

// ClearCache drops the snapshot of kind and returns the clear time.
func (uc *UseCase) ClearCache(ctx context.Context, kind entity.CatalogKind) (time.Time, error) {
	cache, err := uc.cache(kind)
	if err != nil {
		return time.Time{}, err
	}
	if err := cache.Clear(ctx); err != nil {
		return time.Time{}, err
	}
	at := uc.now()
	uc.log.Info().Str("kind", string(kind)).Msg("catalog cache cleared")
	return at, nil
}

// ClearAll drops the snapshot of every catalog kind.
func (uc *UseCase) ClearAll(ctx context.Context) (time.Time, error) {
	for kind := range uc.caches {
		if _, err := uc.ClearCache(ctx, kind); err != nil {
			return time.Time{}, err
		}
	}
	return uc.now(), nil
}

// Refresh clears the cache of kind and resyncs immediately. Unlike ListProducts it reports an
// unreachable sheet as an error instead of serving the persisted view.
func (uc *UseCase) Refresh(ctx context.Context, kind entity.CatalogKind) (int, time.Time, error) {
	cache, err := uc.cache(kind)
	if err != nil {
		return 0, time.Time{}, err
	}
	if err := cache.Clear(ctx); err != nil {
		return 0, time.Time{}, err
	}
	records, err := cache.Get(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}
	res, err := uc.reconciler.Reconcile(ctx, kind, records)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("reconcile %s catalog: %w", kind, err)
	}
	return len(res.Products), uc.now(), nil
}

// LastSync returns, per kind, when the cached snapshot was read (zero when empty).
func (uc *UseCase) LastSync(ctx context.Context) map[entity.CatalogKind]time.Time {
	out := make(map[entity.CatalogKind]time.Time, len(uc.caches))
	for kind, c := range uc.caches {
		out[kind] = c.FetchedAt(ctx)
	}
	return out
}

func (uc *UseCase) cache(kind entity.CatalogKind) (*FreshnessCache, error) {
	c, ok := uc.caches[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown catalog %q", domain.ErrInvalidInput, kind)
	}
	return c, nil
}
