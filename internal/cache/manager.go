package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"

	"github.com/forgo/gildr/internal/database"
)

// Remote tier backends
const (
	RemoteNone     = ""
	RemoteMemcache = "memcache"
	RemoteRedis    = "redis"
)

// Config controls which tiers every record type gets
type Config struct {
	HeapEntries int           // per record type
	DiskEntries int           // per record type, when persisting
	TTL         time.Duration // applies to every tier
	Dir         string        // snapshot directory for the disk tier
	Persist     bool          // enables the disk tier

	Remote        string // RemoteNone, RemoteMemcache or RemoteRedis
	MemcachedAddr string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Logger *slog.Logger
}

// Manager owns the shared remote clients and the disk snapshots of every
// record type's cache. Close flushes snapshots and releases clients.
type Manager struct {
	cfg    Config
	codec  database.Codec
	logger *slog.Logger

	memcache *memcache.Client
	redis    *redis.Client

	mu     sync.Mutex
	disks  []saver
	stores []statser
	closed bool
}

type saver interface {
	Save() error
}

type statser interface {
	Stats() Stats
}

// NewManager validates the configuration and connects remote clients lazily
func NewManager(cfg Config, codec database.Codec) (*Manager, error) {
	if codec == nil {
		return nil, errors.New("cache: codec is required")
	}
	if cfg.HeapEntries <= 0 {
		return nil, fmt.Errorf("cache: heap entries must be positive, got %d", cfg.HeapEntries)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{cfg: cfg, codec: codec, logger: logger}

	if cfg.Persist {
		if cfg.Dir == "" {
			return nil, errors.New("cache: persist requires a directory")
		}
		if cfg.DiskEntries <= 0 {
			return nil, fmt.Errorf("cache: disk entries must be positive, got %d", cfg.DiskEntries)
		}
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create cache dir %s: %v", database.ErrStorage, cfg.Dir, err)
		}
	}

	switch cfg.Remote {
	case RemoteNone:
	case RemoteMemcache:
		if cfg.MemcachedAddr == "" {
			return nil, errors.New("cache: memcache remote requires an address")
		}
		m.memcache = memcache.New(cfg.MemcachedAddr)
	case RemoteRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("cache: redis remote requires an address")
		}
		m.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("cache: unknown remote %q", cfg.Remote)
	}
	return m, nil
}

// Tiers builds the tier stack for one record kind, fastest first:
// heap, then disk when persisting, then the remote tier when configured.
func Tiers[T any](m *Manager, kind string) []Tier[T] {
	tiers := []Tier[T]{NewHeapTier[T](m.cfg.HeapEntries, m.cfg.TTL)}

	if m.cfg.Persist {
		disk, err := NewDiskTier[T](m.cfg.Dir, kind, m.cfg.DiskEntries, m.cfg.TTL, m.codec)
		if err != nil {
			m.logger.Warn("cache snapshot ignored", "type", kind, "error", err)
		}
		m.mu.Lock()
		m.disks = append(m.disks, disk)
		m.mu.Unlock()
		tiers = append(tiers, disk)
	}

	switch {
	case m.memcache != nil:
		tiers = append(tiers, NewMemcacheTier[T](m.memcache, kind, m.cfg.TTL, m.codec))
	case m.redis != nil:
		tiers = append(tiers, NewRedisTier[T](m.redis, kind, m.cfg.TTL, m.codec))
	}
	return tiers
}

// Wrap composes a caching Store for kind around backing
func Wrap[T database.Record](m *Manager, kind string, backing database.Store[T]) *Store[T] {
	s := NewStore(kind, backing, Tiers[T](m, kind), m.logger)
	m.mu.Lock()
	m.stores = append(m.stores, s)
	m.mu.Unlock()
	return s
}

// Stats reports every store created through Wrap
func (m *Manager) Stats() []Stats {
	m.mu.Lock()
	stores := append([]statser(nil), m.stores...)
	m.mu.Unlock()

	out := make([]Stats, 0, len(stores))
	for _, s := range stores {
		out = append(out, s.Stats())
	}
	return out
}

// Flush writes every disk snapshot
func (m *Manager) Flush() error {
	m.mu.Lock()
	disks := append([]saver(nil), m.disks...)
	m.mu.Unlock()

	var errs []error
	for _, d := range disks {
		if err := d.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes snapshots and closes remote clients. Safe to call twice.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	errs := []error{m.Flush()}
	if m.memcache != nil {
		errs = append(errs, m.memcache.Close())
	}
	if m.redis != nil {
		errs = append(errs, m.redis.Close())
	}
	return errors.Join(errs...)
}
