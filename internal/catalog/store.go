package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is the process-wide read-only view of the catalog.
// The full catalog is loaded lazily and cached until Invalidate.
type Store struct {
	src     Source
	log     *zap.Logger
	metrics *Metrics

	snap  atomic.Pointer[[]Product]
	mu    sync.Mutex // guards epoch changes and snapshot writes
	epoch uint64
	group singleflight.Group
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func NewStore(src Source, opts ...Option) *Store {
	s := &Store{src: src, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns every well-formed product in catalog order.
// It never fails: when the source cannot be listed it returns an empty slice
// and the next call tries again.
func (s *Store) LoadAll(ctx context.Context) []Product {
	if p := s.snap.Load(); p != nil {
		return cloneProducts(*p)
	}

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	// Concurrent first loads share one read; the load outlives any single caller.
	v, _, _ := s.group.Do(strconv.FormatUint(epoch, 10), func() (any, error) {
		if p := s.snap.Load(); p != nil {
			return *p, nil
		}

		products, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			s.metrics.failed()
			s.log.Error("catalog load failed", zap.Error(err))
			return []Product{}, nil
		}

		s.mu.Lock()
		if s.epoch == epoch {
			s.snap.Store(&products)
		}
		s.mu.Unlock()

		return products, nil
	})

	return cloneProducts(v.([]Product))
}

func (s *Store) load(ctx context.Context) ([]Product, error) {
	ids, err := s.src.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		p, err := s.read(ctx, id)
		if err != nil {
			skipped++
			lvl := zap.WarnLevel
			if errors.Is(err, ErrNotFound) {
				lvl = zap.DebugLevel
			}
			s.log.Log(lvl, "skipping product", zap.String("id", id), zap.Error(err))
			continue
		}
		products = append(products, p)
	}

	s.metrics.loaded(len(products), skipped)
	s.log.Info("catalog loaded", zap.Int("products", len(products)), zap.Int("skipped", skipped))
	return products, nil
}

func (s *Store) read(ctx context.Context, id string) (Product, error) {
	data, err := s.src.Read(ctx, id)
	if err != nil {
		return Product{}, err
	}

	p, err := DecodeDescriptor(data)
	if err != nil {
		return Product{}, fmt.Errorf("%s: %w", id, err)
	}
	if p.Slug != id {
		return Product{}, fmt.Errorf("%w: slug %q stored under %q", ErrMalformed, p.Slug, id)
	}
	return p, nil
}

// GetBySlug reads one descriptor straight from the source, bypassing the cache.
// A missing or malformed descriptor reports false.
func (s *Store) GetBySlug(ctx context.Context, slug string) (Product, bool) {
	p, err := s.read(ctx, slug)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("get product failed", zap.String("slug", slug), zap.Error(err))
		}
		return Product{}, false
	}
	return p, true
}

// Invalidate drops the cached snapshot. A load already in flight will not repopulate it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.epoch++
	s.snap.Store(nil)
	s.mu.Unlock()

	s.log.Info("catalog cache invalidated")
}

func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.src.(Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := s.src.IDs(ctx)
	return err
}
