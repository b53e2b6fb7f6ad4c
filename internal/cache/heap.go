package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
)

const (
	maxHeapShards      = 16
	minShardCapacity   = 64
	evictionPercentage = 10
)

// HeapTier is a bounded in-process cache of decoded records
type HeapTier[T any] struct {
	client *sturdyc.Client[T]
}

// NewHeapTier holds at most capacity records for ttl each. A full shard
// evicts a tenth of its entries.
func NewHeapTier[T any](capacity int, ttl time.Duration) *HeapTier[T] {
	if capacity < 1 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	shards := min(maxHeapShards, max(1, capacity/minShardCapacity))
	return &HeapTier[T]{
		client: sturdyc.New[T](capacity, shards, ttl, evictionPercentage),
	}
}

func (h *HeapTier[T]) Name() string { return "heap" }

func (h *HeapTier[T]) Get(_ context.Context, id uuid.UUID) (T, bool, error) {
	v, ok := h.client.Get(id.String())
	return v, ok, nil
}

func (h *HeapTier[T]) Set(_ context.Context, id uuid.UUID, value T) error {
	h.client.Set(id.String(), value)
	return nil
}

func (h *HeapTier[T]) Delete(_ context.Context, id uuid.UUID) error {
	h.client.Delete(id.String())
	return nil
}

// Size returns the number of cached records
func (h *HeapTier[T]) Size() int {
	return h.client.Size()
}
