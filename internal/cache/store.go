package cache

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgo/gildr/internal/database"
)

var tracer = otel.Tracer("github.com/forgo/gildr/internal/cache")

const lockStripes = 64

// Store is a read-through, write-through cache in front of a database.Store.
//
// Get checks each tier in order and backfills faster tiers on a hit; on a
// full miss it reads the backing store and fills every tier. Put writes the
// backing store first and only then the tiers. Delete removes from the
// backing store and then from every tier whatever the store reported.
//
// Only the fastest tier is read without the per-id lock. Slower tier hits,
// fill-on-miss, Put and Delete for the same id are serialized, so a backfill
// cannot overwrite a newer value written concurrently.
type Store[T database.Record] struct {
	kind    string
	backing database.Store[T]
	tiers   []Tier[T]
	logger  *slog.Logger

	stripes [lockStripes]sync.Mutex
	hits    atomic.Int64
	misses  atomic.Int64
}

// Stats is a point-in-time view of a store's cache effectiveness
type Stats struct {
	Kind     string   `json:"type"`
	Hits     int64    `json:"hits"`
	Misses   int64    `json:"misses"`
	Tiers    []string `json:"tiers"`
	HeapSize int      `json:"heapSize"`
	DiskSize int      `json:"diskSize,omitempty"`
}

// NewStore wraps backing with the given tiers, fastest first
func NewStore[T database.Record](kind string, backing database.Store[T], tiers []Tier[T], logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		kind:    kind,
		backing: backing,
		tiers:   tiers,
		logger:  logger.With("type", kind),
	}
}

func (s *Store[T]) lock(id uuid.UUID) *sync.Mutex {
	mu := &s.stripes[int(id[15])%lockStripes]
	mu.Lock()
	return mu
}

func (s *Store[T]) span(ctx context.Context, name string, id uuid.UUID) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("record.type", s.kind),
		attribute.String("record.id", id.String()),
	))
}

// Get implements database.Store
func (s *Store[T]) Get(ctx context.Context, id uuid.UUID) (T, bool) {
	ctx, span := s.span(ctx, "cache.Get", id)
	defer span.End()

	if len(s.tiers) > 0 {
		if v, ok := s.read(ctx, s.tiers[0], id, span); ok {
			s.hit(span, s.tiers[0])
			return v, true
		}
	}

	mu := s.lock(id)
	defer mu.Unlock()

	// rechecks the fastest tier too: another caller may have filled it while we waited
	for i, tier := range s.tiers {
		if v, ok := s.read(ctx, tier, id, span); ok {
			s.hit(span, tier)
			s.fill(ctx, id, v, s.tiers[:i])
			return v, true
		}
	}

	s.misses.Add(1)
	span.SetAttributes(attribute.Bool("cache.hit", false))
	v, ok := s.backing.Get(ctx, id)
	if !ok {
		var zero T
		return zero, false
	}
	s.fill(ctx, id, v, s.tiers)
	return v, true
}

func (s *Store[T]) read(ctx context.Context, tier Tier[T], id uuid.UUID, span trace.Span) (T, bool) {
	v, ok, err := tier.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("cache tier read failed", "tier", tier.Name(), "id", id, "error", err)
		return v, false
	}
	return v, ok
}

func (s *Store[T]) hit(span trace.Span, tier Tier[T]) {
	s.hits.Add(1)
	span.SetAttributes(attribute.Bool("cache.hit", true), attribute.String("cache.tier", tier.Name()))
}

func (s *Store[T]) fill(ctx context.Context, id uuid.UUID, v T, tiers []Tier[T]) {
	for _, tier := range tiers {
		if err := tier.Set(ctx, id, v); err != nil {
			s.logger.Warn("cache tier write failed", "tier", tier.Name(), "id", id, "error", err)
		}
	}
}

func (s *Store[T]) evict(ctx context.Context, id uuid.UUID) {
	for _, tier := range s.tiers {
		if err := tier.Delete(ctx, id); err != nil {
			s.logger.Warn("cache tier delete failed", "tier", tier.Name(), "id", id, "error", err)
		}
	}
}

// Put implements database.Store. If the backing write fails the cached entry
// is evicted so the next read reflects whatever is on disk.
func (s *Store[T]) Put(ctx context.Context, record T) error {
	id := record.RecordID()
	ctx, span := s.span(ctx, "cache.Put", id)
	defer span.End()

	mu := s.lock(id)
	defer mu.Unlock()

	if err := s.backing.Put(ctx, record); err != nil {
		span.RecordError(err)
		s.evict(ctx, id)
		return err
	}
	s.fill(ctx, id, record, s.tiers)
	return nil
}

// Delete implements database.Store
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.span(ctx, "cache.Delete", id)
	defer span.End()

	mu := s.lock(id)
	defer mu.Unlock()

	err := s.backing.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
	}
	s.evict(ctx, id)
	return err
}

// Invalidate drops id from every tier without touching the backing store
func (s *Store[T]) Invalidate(ctx context.Context, id uuid.UUID) {
	mu := s.lock(id)
	defer mu.Unlock()
	s.evict(ctx, id)
}

type indexer interface {
	IDs() []uuid.UUID
}

// All implements database.Store. When the backing store exposes its id index
// every record is read through the cache; otherwise the backing listing is
// used as is.
func (s *Store[T]) All(ctx context.Context) iter.Seq[T] {
	idx, ok := s.backing.(indexer)
	if !ok {
		return s.backing.All(ctx)
	}
	return func(yield func(T) bool) {
		for _, id := range idx.IDs() {
			if ctx.Err() != nil {
				return
			}
			v, ok := s.Get(ctx, id)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Kind returns the record type this store caches
func (s *Store[T]) Kind() string {
	return s.kind
}

// Stats reports hit and miss counts since creation
func (s *Store[T]) Stats() Stats {
	st := Stats{
		Kind:   s.kind,
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Tiers:  make([]string, 0, len(s.tiers)),
	}
	for _, tier := range s.tiers {
		st.Tiers = append(st.Tiers, tier.Name())
		sz, ok := tier.(sizer)
		if !ok {
			continue
		}
		switch tier.Name() {
		case "heap":
			st.HeapSize = sz.Size()
		case "disk":
			st.DiskSize = sz.Size()
		}
	}
	return st
}
