package cache

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/forgo/gildr/internal/database"
)

// DiskTier keeps encoded records in memory and snapshots them to a file so
// warm entries survive a restart. The snapshot is loaded when the tier is
// created and written by Save.
//
// The tier holds at most capacity entries. Adding a new entry to a full tier
// first drops the oldest tenth, oldest meaning closest to expiry.
type DiskTier[T any] struct {
	cache    *gocache.Cache
	codec    database.Codec
	path     string
	capacity int

	mu sync.Mutex // serializes the capacity check with the write
}

// NewDiskTier opens the tier backed by <dir>/<kind>.cache. A missing snapshot
// starts an empty tier; an unreadable one is reported and the tier starts
// empty. A snapshot larger than capacity is trimmed on load.
func NewDiskTier[T any](dir, kind string, capacity int, ttl time.Duration, codec database.Codec) (*DiskTier[T], error) {
	if capacity < 1 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	d := &DiskTier[T]{
		cache:    gocache.New(ttl, 2*ttl),
		codec:    codec,
		path:     filepath.Join(dir, kind+".cache"),
		capacity: capacity,
	}
	if err := d.cache.LoadFile(d.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return d, fmt.Errorf("%w: load snapshot %s: %v", ErrTier, d.path, err)
	}
	d.trim(capacity)
	return d, nil
}

func (d *DiskTier[T]) Name() string { return "disk" }

func (d *DiskTier[T]) Get(_ context.Context, id uuid.UUID) (T, bool, error) {
	var zero T
	raw, ok := d.cache.Get(id.String())
	if !ok {
		return zero, false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		d.cache.Delete(id.String())
		return zero, false, fmt.Errorf("%w: disk entry %s has type %T", ErrTier, id, raw)
	}
	var v T
	if err := d.codec.Unmarshal(data, &v); err != nil {
		d.cache.Delete(id.String())
		return zero, false, fmt.Errorf("%w: disk entry %s: %v", ErrTier, id, err)
	}
	return v, true, nil
}

func (d *DiskTier[T]) Set(_ context.Context, id uuid.UUID, value T) error {
	data, err := d.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrTier, id, err)
	}
	key := id.String()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.cache.Get(key); !found && d.cache.ItemCount() >= d.capacity {
		d.trim(d.capacity - max(1, d.capacity*evictionPercentage/100))
	}
	d.cache.SetDefault(key, data)
	return nil
}

// trim drops expired entries, then the entries closest to expiry until at
// most keep remain
func (d *DiskTier[T]) trim(keep int) {
	d.cache.DeleteExpired()
	items := d.cache.Items()
	if len(items) <= keep {
		return
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Compare(items[a].Expiration, items[b].Expiration)
	})
	for _, k := range keys[:len(keys)-keep] {
		d.cache.Delete(k)
	}
}

func (d *DiskTier[T]) Delete(_ context.Context, id uuid.UUID) error {
	d.cache.Delete(id.String())
	return nil
}

// Size returns the number of entries, including expired ones not yet swept
func (d *DiskTier[T]) Size() int {
	return d.cache.ItemCount()
}

// Path returns the snapshot file location
func (d *DiskTier[T]) Path() string {
	return d.path
}

// Save writes the snapshot file
func (d *DiskTier[T]) Save() error {
	if err := d.cache.SaveFile(d.path); err != nil {
		return fmt.Errorf("%w: save snapshot %s: %v", ErrTier, d.path, err)
	}
	return nil
}
