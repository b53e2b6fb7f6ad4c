package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTier wraps failures reported by a cache tier. Tier failures never fail
// the operation that triggered them; the facade logs them and falls through
// to the next tier or the backing store.
var ErrTier = errors.New("cache tier error")

// Tier is one level of the cache hierarchy. A miss is (zero, false, nil).
type Tier[T any] interface {
	Name() string
	Get(ctx context.Context, id uuid.UUID) (T, bool, error)
	Set(ctx context.Context, id uuid.UUID, value T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// sizer is implemented by tiers that can report their entry count
type sizer interface {
	Size() int
}
