package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

func product(name string, price int64, qty int, category string) *entity.Product {
	return &entity.Product{Kind: entity.KindProduce, Name: name, Price: decimal.NewFromInt(price), Quantity: qty, Category: category}
}

func newReconciler(repo *memRepo) *appcatalog.Reconciler {
	return appcatalog.NewReconciler(&memTx{repo: repo}, logger.Nop())
}

func TestReconcile_TomatoKale(t *testing.T) {
	repo := newMemRepo(product("Tomato", 2, 0, "Veg"), product("Kale", 4, 10, "Greens"))
	tomatoID := repo.byName("Tomato").ID

	res, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce,
		[]catalog.Record{rec("Tomato", 3, 5, "Veg")})
	require.NoError(t, err)

	tomato := repo.byName("Tomato")
	assert.Equal(t, tomatoID, tomato.ID, "id must survive an update")
	assert.True(t, tomato.Price.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 5, tomato.Quantity)

	kale := repo.byName("Kale")
	require.NotNil(t, kale, "missing products are never deleted")
	assert.Equal(t, 0, kale.Quantity)
	assert.True(t, kale.Price.Equal(decimal.NewFromInt(4)))

	require.Len(t, res.Products, 1)
	assert.Equal(t, "Tomato", res.Products[0].Name)
	assert.EqualValues(t, 1, res.Zeroed)
	assert.Equal(t, 1, res.Updated)
}

func TestReconcile_CreatesNewProducts(t *testing.T) {
	repo := newMemRepo()
	res, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce, []catalog.Record{
		rec("Zucchini", 2, 3, "Veg"),
		rec("Apple", 1, 7, "Fruit"),
		rec("Basil", 3, 2, "Herbs"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	names := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		names = append(names, p.Category+"/"+p.Name)
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
	}
	assert.Equal(t, []string{"Fruit/Apple", "Herbs/Basil", "Veg/Zucchini"}, names)
}

func TestReconcile_ZeroingIsIdempotent(t *testing.T) {
	repo := newMemRepo(product("Kale", 4, 10, "Greens"), product("Leek", 2, 3, "Veg"))
	r := newReconciler(repo)
	records := []catalog.Record{rec("Leek", 2, 3, "Veg")}

	first, err := r.Reconcile(context.Background(), entity.KindProduce, records)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Zeroed)

	second, err := r.Reconcile(context.Background(), entity.KindProduce, records)
	require.NoError(t, err)
	assert.EqualValues(t, 0, second.Zeroed)
	assert.Equal(t, 0, repo.byName("Kale").Quantity)
}

func TestReconcile_RoundTripLeavesStateUnchanged(t *testing.T) {
	repo := newMemRepo(product("Leek", 2, 3, "Veg"), product("Kale", 4, 10, "Greens"))
	before := repo.byName("Kale")

	res, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce, []catalog.Record{
		rec("Leek", 2, 3, "Veg"),
		rec("Kale", 4, 10, "Greens"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Unchanged)
	assert.Zero(t, res.Updated)
	assert.Zero(t, res.Created)
	assert.Equal(t, before, repo.byName("Kale"))
}

func TestReconcile_DuplicateNamesLastWins(t *testing.T) {
	repo := newMemRepo()
	_, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce, []catalog.Record{
		rec("Garlic", 5, 1, "Veg"),
		rec("Garlic", 6, 9, "Veg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count())
	g := repo.byName("Garlic")
	assert.Equal(t, 9, g.Quantity)
	assert.True(t, g.Price.Equal(decimal.NewFromInt(6)))
}

func TestReconcile_KindsAreIsolated(t *testing.T) {
	seed := product("Tomato Seeds", 4, 20, "Seeds")
	seed.Kind = entity.KindSeed
	repo := newMemRepo(seed)

	_, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce,
		[]catalog.Record{rec("Tomato", 3, 5, "Veg")})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.byName("Tomato Seeds").Quantity)
}

func TestReconcile_FailureRollsBack(t *testing.T) {
	repo := newMemRepo(product("Kale", 4, 10, "Greens"))
	repo.failCreate = "Broken"

	_, err := newReconciler(repo).Reconcile(context.Background(), entity.KindProduce, []catalog.Record{
		rec("Tomato", 3, 5, "Veg"),
		rec("Broken", 1, 1, "Veg"),
	})
	require.Error(t, err)
	assert.Equal(t, 10, repo.byName("Kale").Quantity)
	assert.Nil(t, repo.byName("Tomato"))
}

func TestReconcile_ConcurrentCreateOfSameName(t *testing.T) {
	repo := newRacingRepo()
	r := appcatalog.NewReconciler(passTx{repo: repo}, logger.Nop())
	records := []catalog.Record{rec("Tomato", 3, 5, "Veg")}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Reconcile(context.Background(), entity.KindProduce, records)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "reconciliation %d", i)
	}
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 5, repo.byName("Tomato").Quantity)
}
