// Package analytics builds the admin dashboard.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	domorder "github.com/willowtrellis/farmstand-api/internal/domain/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var catalogKinds = []entity.CatalogKind{entity.KindProduce, entity.KindSeed}

// SyncInfo reports when each catalog was last read from the sheet.
type SyncInfo interface {
	LastSync(ctx context.Context) map[entity.CatalogKind]time.Time
}

// DashboardUseCase aggregates orders, revenue and stock for the admin panel.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	sync          SyncInfo
	now           func() time.Time
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, sync SyncInfo) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, sync: sync, now: time.Now}
}

// GetSummary runs the dashboard queries concurrently. The first failing query cancels the rest.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		byStatus    map[entity.OrderStatus]int
		revenue     decimal.Decimal
		ordersToday int
		mu          sync.Mutex
		stock       = make(map[entity.CatalogKind]repository.StockCounts, len(catalogKinds))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = uc.analyticsRepo.OrderCountsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = uc.analyticsRepo.Revenue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ordersToday, err = uc.analyticsRepo.OrdersSince(gctx, todayStart)
		return err
	})
	for _, kind := range catalogKinds {
		g.Go(func() error {
			c, err := uc.analyticsRepo.StockCounts(gctx, kind)
			if err != nil {
				return err
			}
			mu.Lock()
			stock[kind] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := make(map[string]int, len(domorder.Statuses))
	for _, st := range domorder.Statuses {
		statuses[string(st)] = byStatus[st]
	}

	lastSync := uc.sync.LastSync(ctx)
	catalogs := make([]dto.CatalogStatusDTO, 0, len(catalogKinds))
	for _, kind := range catalogKinds {
		c := dto.CatalogStatusDTO{
			Kind:       string(kind),
			InStock:    stock[kind].InStock,
			OutOfStock: stock[kind].OutOfStock,
		}
		if at, ok := lastSync[kind]; ok && !at.IsZero() {
			at := at
			c.LastSyncAt = &at
		}
		catalogs = append(catalogs, c)
	}

	return &dto.DashboardDTO{
		OrdersByStatus: statuses,
		Revenue:        revenue,
		OrdersToday:    ordersToday,
		Catalogs:       catalogs,
		GeneratedAt:    now,
	}, nil
}
