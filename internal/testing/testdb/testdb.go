package testdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/forgo/gildr/internal/cache"
	"github.com/forgo/gildr/internal/codec"
	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
)

// TestDB holds the stores of one isolated data directory
type TestDB struct {
	Dir   string
	Codec *codec.Codec
	Cache *cache.Manager

	PlayerFiles *database.FileStore[model.Player]
	GuildFiles  *database.FileStore[model.Guild]
	InviteFiles *database.FileStore[model.Invite]

	Players *cache.Store[model.Player]
	Guilds  *cache.Store[model.Guild]
	Invites *cache.Store[model.Invite]
}

// New creates stores under a fresh temp directory with a heap-only cache
func New(t *testing.T) *TestDB {
	t.Helper()
	return NewWithCache(t, cache.Config{HeapEntries: 100, TTL: time.Hour})
}

// NewWithCache is New with a caller-supplied cache configuration. A
// persistent cache without a directory is placed under the data directory.
func NewWithCache(t *testing.T, cfg cache.Config) *TestDB {
	t.Helper()

	dir := t.TempDir()
	if cfg.Persist && cfg.Dir == "" {
		cfg.Dir = filepath.Join(dir, "cache")
	}
	c := codec.New()

	mgr, err := cache.NewManager(cfg, c)
	if err != nil {
		t.Fatalf("testdb: failed to create cache manager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	tdb := &TestDB{Dir: dir, Codec: c, Cache: mgr}
	tdb.PlayerFiles = open[model.Player](t, dir, model.KindPlayer, c)
	tdb.GuildFiles = open[model.Guild](t, dir, model.KindGuild, c)
	tdb.InviteFiles = open[model.Invite](t, dir, model.KindInvite, c)

	tdb.Players = cache.Wrap[model.Player](mgr, model.KindPlayer, tdb.PlayerFiles)
	tdb.Guilds = cache.Wrap[model.Guild](mgr, model.KindGuild, tdb.GuildFiles)
	tdb.Invites = cache.Wrap[model.Invite](mgr, model.KindInvite, tdb.InviteFiles)
	return tdb
}

func open[T database.Record](t *testing.T, dir, kind string, c *codec.Codec) *database.FileStore[T] {
	t.Helper()
	s, err := database.NewFileStore[T](database.FileStoreConfig{
		Dir:   filepath.Join(dir, kind+"s"),
		Kind:  kind,
		Codec: c,
	})
	if err != nil {
		t.Fatalf("testdb: failed to open %s store: %v", kind, err)
	}
	return s
}
