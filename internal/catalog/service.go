package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const flightKey = "catalog"

// Service owns the fetch lifecycle of the product collection: one fetch at
// start, a user triggered reload, and cache warmup for the worker.
type Service struct {
	source  Source
	cache   *Cache
	logger  *slog.Logger
	metrics *Metrics
	group   singleflight.Group

	mu       sync.RWMutex
	snapshot Snapshot
	started  bool
	ready    chan struct{}
	readyOne sync.Once

	clock func() time.Time
}

// NewService wires the data source with the optional cache and metrics.
func NewService(source Source, cache *Cache, logger *slog.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:   source,
		cache:    cache,
		logger:   logger.With(slog.String("component", "catalog")),
		metrics:  metrics,
		snapshot: Snapshot{Loading: true, Products: []Product{}},
		ready:    make(chan struct{}),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Start issues the single asynchronous fetch. Later calls are no-ops.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		s.publish(s.load(ctx))
	}()
}

// Ready is closed once the first fetch resolved, successfully or not.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns the current collection. While the first fetch is pending
// the snapshot reports Loading with no products.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Reload drops the cached snapshot and fetches again.
func (s *Service) Reload(ctx context.Context) Snapshot {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump catalog cache", slog.Any("error", err))
	}
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	snap := s.load(ctx)
	s.publish(snap)
	return snap
}

// Warm fetches from the source and stores the result in the cache. Unlike the
// interactive paths it reports failures so the job can be retried.
func (s *Service) Warm(ctx context.Context) (int, error) {
	products, err := s.source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return 0, err
	}
	if err := s.cache.Store(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *Service) load(ctx context.Context) Snapshot {
	start := time.Now()
	var hit bool
	value, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		products, cached, err := s.cache.Fetch(ctx, s.source.Fetch)
		hit = cached
		if errors.Is(err, ErrCacheUnavailable) {
			s.logger.Warn("catalog cache bypassed", slog.Any("error", err))
			err = nil
		}
		return products, err
	})
	products, _ := value.([]Product)
	if products == nil {
		products = []Product{}
	}
	s.metrics.observeFetch(err, len(products), hit, time.Since(start))

	snap := Snapshot{Products: products, FetchedAt: s.clock(), Err: err}
	if err != nil {
		s.logger.Warn("fetch catalog, serving empty table", slog.Any("error", err))
		snap.Products = []Product{}
		return snap
	}
	s.logger.Info("catalog loaded", slog.Int("products", len(products)), slog.Bool("cache_hit", hit))
	return snap
}

func (s *Service) publish(snap Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.readyOne.Do(func() { close(s.ready) })
}
