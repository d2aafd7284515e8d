package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrellis/farmstand-api/internal/application/analytics"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

type fakeAnalytics struct {
	since time.Time
	err   error
}

func (f *fakeAnalytics) OrderCountsByStatus(context.Context) (map[entity.OrderStatus]int, error) {
	return map[entity.OrderStatus]int{entity.OrderPending: 2, entity.OrderPickedUp: 5}, nil
}

func (f *fakeAnalytics) Revenue(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("123.45"), nil
}

func (f *fakeAnalytics) OrdersSince(_ context.Context, since time.Time) (int, error) {
	f.since = since
	return 1, nil
}

func (f *fakeAnalytics) StockCounts(_ context.Context, kind entity.CatalogKind) (repository.StockCounts, error) {
	if f.err != nil {
		return repository.StockCounts{}, f.err
	}
	if kind == entity.KindSeed {
		return repository.StockCounts{InStock: 4, OutOfStock: 1}, nil
	}
	return repository.StockCounts{InStock: 10, OutOfStock: 3}, nil
}

type fixedSync map[entity.CatalogKind]time.Time

func (s fixedSync) LastSync(context.Context) map[entity.CatalogKind]time.Time { return s }

func TestGetSummary(t *testing.T) {
	synced := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	repo := &fakeAnalytics{}
	uc := analytics.NewDashboardUseCase(repo, fixedSync{entity.KindProduce: synced})

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, got.OrdersByStatus["PENDING"])
	assert.Equal(t, 0, got.OrdersByStatus["CANCELLED"], "every status is reported")
	assert.Len(t, got.OrdersByStatus, 6)
	assert.Equal(t, "123.45", got.Revenue.String())
	assert.Equal(t, 1, got.OrdersToday)
	assert.Equal(t, 0, repo.since.Hour())

	require.Len(t, got.Catalogs, 2)
	assert.Equal(t, "produce", got.Catalogs[0].Kind)
	assert.Equal(t, 10, got.Catalogs[0].InStock)
	require.NotNil(t, got.Catalogs[0].LastSyncAt)
	assert.Equal(t, synced, *got.Catalogs[0].LastSyncAt)
	assert.Nil(t, got.Catalogs[1].LastSyncAt)
	assert.Equal(t, 1, got.Catalogs[1].OutOfStock)
}

func TestGetSummary_PropagatesErrors(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalytics{err: errors.New("boom")}, fixedSync{})
	_, err := uc.GetSummary(context.Background())
	assert.Error(t, err)
}
