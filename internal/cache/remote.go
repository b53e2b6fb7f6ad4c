package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/forgo/gildr/internal/database"
)

const keyPrefix = "gildr:"

// memcache reads expirations past 30 days as absolute unix times
const maxMemcacheExpiration = 30 * 24 * time.Hour

// remoteKey namespaces ids by record kind so one server can hold every type
func remoteKey(kind string, id uuid.UUID) string {
	return keyPrefix + kind + ":" + id.String()
}

// MemcacheTier stores encoded records in memcached
type MemcacheTier[T any] struct {
	client *memcache.Client
	codec  database.Codec
	kind   string
	ttl    time.Duration
}

func NewMemcacheTier[T any](client *memcache.Client, kind string, ttl time.Duration, codec database.Codec) *MemcacheTier[T] {
	return &MemcacheTier[T]{client: client, codec: codec, kind: kind, ttl: ttl}
}

func (m *MemcacheTier[T]) Name() string { return "memcache" }

func (m *MemcacheTier[T]) Get(_ context.Context, id uuid.UUID) (T, bool, error) {
	var zero T
	item, err := m.client.Get(remoteKey(m.kind, id))
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("%w: memcache get %s: %v", ErrTier, id, err)
	}
	var v T
	if err := m.codec.Unmarshal(item.Value, &v); err != nil {
		return zero, false, fmt.Errorf("%w: memcache entry %s: %v", ErrTier, id, err)
	}
	return v, true, nil
}

func (m *MemcacheTier[T]) Set(_ context.Context, id uuid.UUID, value T) error {
	data, err := m.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrTier, id, err)
	}
	err = m.client.Set(&memcache.Item{
		Key:        remoteKey(m.kind, id),
		Value:      data,
		Expiration: memcacheExpiration(m.ttl),
	})
	if err != nil {
		return fmt.Errorf("%w: memcache set %s: %v", ErrTier, id, err)
	}
	return nil
}

// memcacheExpiration converts ttl to relative seconds, capped at 30 days
func memcacheExpiration(ttl time.Duration) int32 {
	return int32(min(ttl, maxMemcacheExpiration) / time.Second)
}

func (m *MemcacheTier[T]) Delete(_ context.Context, id uuid.UUID) error {
	err := m.client.Delete(remoteKey(m.kind, id))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("%w: memcache delete %s: %v", ErrTier, id, err)
	}
	return nil
}

// RedisTier stores encoded records in redis
type RedisTier[T any] struct {
	client *redis.Client
	codec  database.Codec
	kind   string
	ttl    time.Duration
}

func NewRedisTier[T any](client *redis.Client, kind string, ttl time.Duration, codec database.Codec) *RedisTier[T] {
	return &RedisTier[T]{client: client, codec: codec, kind: kind, ttl: ttl}
}

func (r *RedisTier[T]) Name() string { return "redis" }

func (r *RedisTier[T]) Get(ctx context.Context, id uuid.UUID) (T, bool, error) {
	var zero T
	data, err := r.client.Get(ctx, remoteKey(r.kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("%w: redis get %s: %v", ErrTier, id, err)
	}
	var v T
	if err := r.codec.Unmarshal(data, &v); err != nil {
		return zero, false, fmt.Errorf("%w: redis entry %s: %v", ErrTier, id, err)
	}
	return v, true, nil
}

func (r *RedisTier[T]) Set(ctx context.Context, id uuid.UUID, value T) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrTier, id, err)
	}
	if err := r.client.Set(ctx, remoteKey(r.kind, id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", ErrTier, id, err)
	}
	return nil
}

func (r *RedisTier[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, remoteKey(r.kind, id)).Err(); err != nil {
		return fmt.Errorf("%w: redis delete %s: %v", ErrTier, id, err)
	}
	return nil
}
