package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

// memRepo is an in-memory ProductRepository.
type memRepo struct {
	mu         sync.Mutex
	items      map[string]*entity.Product
	failCreate string
	nextID     int
}

func newMemRepo(products ...*entity.Product) *memRepo {
	r := &memRepo{items: make(map[string]*entity.Product)}
	for _, p := range products {
		if p.ID == "" {
			r.nextID++
			p.ID = fmt.Sprintf("existing-%d", r.nextID)
		}
		cp := *p
		r.items[p.ID] = &cp
	}
	return r
}

var _ repository.ProductRepository = (*memRepo)(nil)

func (r *memRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Name == r.failCreate {
		return errors.New("insert failed")
	}
	for _, other := range r.items {
		if other.Kind == p.Kind && other.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		p, _ := r.GetByID(ctx, id)
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) FindByName(_ context.Context, kind entity.CatalogKind, name string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.Kind == kind && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) ListAll(_ context.Context, kind entity.CatalogKind) ([]*entity.Product, error) {
	return r.list(kind, false), nil
}

func (r *memRepo) ListInStock(_ context.Context, kind entity.CatalogKind) ([]*entity.Product, error) {
	return r.list(kind, true), nil
}

func (r *memRepo) ZeroQuantity(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			p.Quantity = 0
			n++
		}
	}
	return n, nil
}

func (r *memRepo) list(kind entity.CatalogKind, inStock bool) []*entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.items {
		if p.Kind != kind || (inStock && p.Quantity <= 0) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *memRepo) byName(name string) *entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.Name == name {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// memTx restores the repository when fn fails.
type memTx struct {
	repo *memRepo
}

func (t *memTx) Run(_ context.Context, fn func(repository.ProductRepository) error) error {
	t.repo.mu.Lock()
	backup := make(map[string]*entity.Product, len(t.repo.items))
	for id, p := range t.repo.items {
		cp := *p
		backup[id] = &cp
	}
	t.repo.mu.Unlock()

	if err := fn(t.repo); err != nil {
		t.repo.mu.Lock()
		t.repo.items = backup
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

// fakeSource returns scripted records and counts reads.
type fakeSource struct {
	mu      sync.Mutex
	records []catalog.Record
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (s *fakeSource) Read(ctx context.Context) ([]catalog.Record, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]catalog.Record(nil), s.records...), nil
}

func (s *fakeSource) set(records []catalog.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records, s.err = records, err
}

// fakeClock is advanced manually.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// racingRepo holds the first two name lookups until both have missed, the way two
// READ COMMITTED transactions can both miss a row neither has committed yet.
type racingRepo struct {
	*memRepo
	lookups atomic.Int32
	missed  sync.WaitGroup
}

func newRacingRepo() *racingRepo {
	r := &racingRepo{memRepo: newMemRepo()}
	r.missed.Add(2)
	return r
}

func (r *racingRepo) FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.Product, error) {
	p, err := r.memRepo.FindByName(ctx, kind, name)
	if r.lookups.Add(1) <= 2 {
		r.missed.Done()
		r.missed.Wait()
	}
	return p, err
}

// passTx runs fn without isolation.
type passTx struct {
	repo repository.ProductRepository
}

func (t passTx) Run(_ context.Context, fn func(repository.ProductRepository) error) error {
	return fn(t.repo)
}
