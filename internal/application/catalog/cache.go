package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

// ErrUpstreamUnavailable is returned by FreshnessCache.Get when the sheet could not be read
// and there is no earlier snapshot to fall back to.
var ErrUpstreamUnavailable = errors.New("catalog source unavailable and no snapshot cached")

// FreshnessCache serves the last sheet snapshot while it is younger than the TTL and reads
// through to the source otherwise. Concurrent misses share a single read.
type FreshnessCache struct {
	kind   entity.CatalogKind
	source RecordSource
	store  SnapshotStore
	ttl    time.Duration
	now    func() time.Time
	log    *logger.Logger
	group  singleflight.Group
}

// CacheOption customizes a FreshnessCache.
type CacheOption func(*FreshnessCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *FreshnessCache) { c.now = now }
}

// NewFreshnessCache builds the cache of one catalog kind.
func NewFreshnessCache(
	kind entity.CatalogKind,
	source RecordSource,
	store SnapshotStore,
	ttl time.Duration,
	log *logger.Logger,
	opts ...CacheOption,
) *FreshnessCache {
	c := &FreshnessCache{
		kind:   kind,
		source: source,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		log:    log.Component("freshness_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the catalog kind this cache serves.
func (c *FreshnessCache) Kind() entity.CatalogKind {
	return c.kind
}

// Get returns the cached records when they are non-empty and fresh, otherwise it reads the
// source and replaces the snapshot with whatever came back (even an empty list).
// When the read fails the previous snapshot is returned without error.
func (c *FreshnessCache) Get(ctx context.Context) ([]catalog.Record, error) {
	snap, ok := c.load(ctx)
	if ok && len(snap.Records) > 0 && c.now().Sub(snap.FetchedAt) < c.ttl {
		return snap.Records, nil
	}

	// Shared by every waiting caller. The source applies its own timeout.
	readCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(string(c.kind), func() (interface{}, error) {
		records, err := c.source.Read(readCtx)
		if err != nil {
			return nil, err
		}
		fresh := Snapshot{Records: records, FetchedAt: c.now()}
		if err := c.store.Save(readCtx, c.kind, fresh); err != nil {
			c.log.Warn().Err(err).Str("kind", string(c.kind)).Msg("could not store catalog snapshot")
		}
		c.log.Debug().Str("kind", string(c.kind)).Int("count", len(records)).Msg("catalog snapshot refreshed")
		return records, nil
	})
	if err != nil {
		if ok && !snap.FetchedAt.IsZero() {
			c.log.Error().Err(err).Str("kind", string(c.kind)).
				Time("fetched_at", snap.FetchedAt).
				Msg("sheet read failed, serving previous snapshot")
			return snap.Records, nil
		}
		c.log.Error().Err(err).Str("kind", string(c.kind)).Msg("sheet read failed with no snapshot cached")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return v.([]catalog.Record), nil
}

// Clear drops the snapshot so the next Get reads the source.
func (c *FreshnessCache) Clear(ctx context.Context) error {
	if err := c.store.Reset(ctx, c.kind); err != nil {
		return fmt.Errorf("reset %s snapshot: %w", c.kind, err)
	}
	return nil
}

// FetchedAt returns when the current snapshot was read. Zero when nothing is cached.
func (c *FreshnessCache) FetchedAt(ctx context.Context) time.Time {
	snap, ok := c.load(ctx)
	if !ok {
		return time.Time{}
	}
	return snap.FetchedAt
}

// load treats a failing store like an empty one so the sheet stays reachable.
func (c *FreshnessCache) load(ctx context.Context) (Snapshot, bool) {
	snap, ok, err := c.store.Load(ctx, c.kind)
	if err != nil {
		c.log.Warn().Err(err).Str("kind", string(c.kind)).Msg("could not load catalog snapshot")
		return Snapshot{}, false
	}
	return snap, ok
}

var _ SnapshotStore = (*MemoryStore)(nil)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[entity.CatalogKind]Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[entity.CatalogKind]Snapshot)}
}

func (s *MemoryStore) Load(_ context.Context, kind entity.CatalogKind) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[kind]
	if !ok {
		return Snapshot{}, false, nil
	}
	return Snapshot{Records: append([]catalog.Record(nil), snap.Records...), FetchedAt: snap.FetchedAt}, true, nil
}

func (s *MemoryStore) Save(_ context.Context, kind entity.CatalogKind, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[kind] = Snapshot{Records: append([]catalog.Record(nil), snap.Records...), FetchedAt: snap.FetchedAt}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, kind entity.CatalogKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, kind)
	return nil
}
