package cache

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/codec"
	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
)

// ============================================================================
// Test doubles
// ============================================================================

// countingStore records how often the backing store is read
type countingStore struct {
	database.Store[model.Guild]
	gets   atomic.Int64
	putErr error
	delErr error
}

func (c *countingStore) Get(ctx context.Context, id uuid.UUID) (model.Guild, bool) {
	c.gets.Add(1)
	return c.Store.Get(ctx, id)
}

func (c *countingStore) Put(ctx context.Context, g model.Guild) error {
	if c.putErr != nil {
		return c.putErr
	}
	return c.Store.Put(ctx, g)
}

func (c *countingStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.Store.Delete(ctx, id); err != nil {
		return err
	}
	return c.delErr
}

func (c *countingStore) IDs() []uuid.UUID {
	return c.Store.(*database.FileStore[model.Guild]).IDs()
}

// mapTier is an in-memory tier that can be told to fail
type mapTier struct {
	name string
	mu   sync.Mutex
	m    map[uuid.UUID]model.Guild
	fail bool
}

func newMapTier(name string) *mapTier {
	return &mapTier{name: name, m: make(map[uuid.UUID]model.Guild)}
}

func (t *mapTier) Name() string { return t.name }

func (t *mapTier) Get(_ context.Context, id uuid.UUID) (model.Guild, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return model.Guild{}, false, ErrTier
	}
	v, ok := t.m[id]
	return v, ok, nil
}

func (t *mapTier) Set(_ context.Context, id uuid.UUID, v model.Guild) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return ErrTier
	}
	t.m[id] = v
	return nil
}

func (t *mapTier) Delete(_ context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return ErrTier
	}
	delete(t.m, id)
	return nil
}

func (t *mapTier) has(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.m[id]
	return ok
}

// gatedTier is a mapTier whose reads park on release once armed
type gatedTier struct {
	*mapTier
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedTier(name string) *gatedTier {
	return &gatedTier{
		mapTier: newMapTier(name),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (t *gatedTier) Get(ctx context.Context, id uuid.UUID) (model.Guild, bool, error) {
	v, ok, err := t.mapTier.Get(ctx, id)
	if t.armed.CompareAndSwap(true, false) {
		close(t.entered)
		<-t.release
	}
	return v, ok, err
}

func newBacking(t *testing.T) (*database.FileStore[model.Guild], *countingStore) {
	t.Helper()
	fs, err := database.NewFileStore[model.Guild](database.FileStoreConfig{
		Dir:   t.TempDir(),
		Kind:  model.KindGuild,
		Codec: codec.New(),
	})
	require.NoError(t, err)
	return fs, &countingStore{Store: fs}
}

func newGuild(t *testing.T, name string) model.Guild {
	t.Helper()
	g, err := model.NewGuild(name, "a guild", []uuid.UUID{uuid.New()}, nil)
	require.NoError(t, err)
	return g
}

func collect(seq iter.Seq[model.Guild]) []model.Guild {
	var out []model.Guild
	for g := range seq {
		out = append(out, g)
	}
	return out
}

// ============================================================================
// Read-through
// ============================================================================

func TestStore_PutGet_RoundTripWithoutBackingRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{NewHeapTier[model.Guild](10, time.Hour)}, nil)
	g := newGuild(t, "Knights")

	require.NoError(t, s.Put(ctx, g))
	got, ok := s.Get(ctx, g.ID)

	require.True(t, ok)
	assert.Equal(t, g, got)
	assert.Equal(t, int64(0), backing.gets.Load(), "served from cache")

	onDisk, ok := fs.Get(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, g, onDisk, "write-through reached the file")
}

func TestStore_Get_MissFillsThenServes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	heap := newMapTier("heap")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, fs.Put(ctx, g))

	first, ok := s.Get(ctx, g.ID)
	require.True(t, ok)
	second, ok := s.Get(ctx, g.ID)
	require.True(t, ok)

	assert.Equal(t, g, first)
	assert.Equal(t, g, second)
	assert.Equal(t, int64(1), backing.gets.Load())
	assert.True(t, heap.has(g.ID))

	st := s.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
}

func TestStore_Get_AbsentIsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	heap := newMapTier("heap")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap}, nil)
	id := uuid.New()

	_, ok := s.Get(ctx, id)

	assert.False(t, ok)
	assert.False(t, heap.has(id))
}

func TestStore_Get_BackfillsFasterTiers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	heap, slow := newMapTier("heap"), newMapTier("disk")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap, slow}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, slow.Set(ctx, g.ID, g))

	got, ok := s.Get(ctx, g.ID)

	require.True(t, ok)
	assert.Equal(t, g, got)
	assert.True(t, heap.has(g.ID))
	assert.Equal(t, int64(0), backing.gets.Load())
}

func TestStore_Get_FailingTierFallsThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	broken := newMapTier("redis")
	broken.fail = true
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{broken}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, fs.Put(ctx, g))

	got, ok := s.Get(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, g, got)

	g.Description = "updated"
	assert.NoError(t, s.Put(ctx, g), "tier failures do not fail writes")
	assert.NoError(t, s.Delete(ctx, g.ID))
}

// ============================================================================
// Write-through and invalidation
// ============================================================================

func TestStore_Put_BackingFailureEvicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	heap := newMapTier("heap")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, s.Put(ctx, g))

	backing.putErr = database.ErrStorage
	changed := g
	changed.Name = "Renamed"
	err := s.Put(ctx, changed)

	assert.ErrorIs(t, err, database.ErrStorage)
	assert.False(t, heap.has(g.ID))
	got, ok := s.Get(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, "Knights", got.Name, "next read reflects the file, not the failed write")
}

func TestStore_Invalidate_ReflectsOutOfBandChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{NewHeapTier[model.Guild](10, time.Hour)}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, s.Put(ctx, g))

	changed := g.WithMember(uuid.New())
	require.NoError(t, fs.Put(ctx, changed))

	stale, _ := s.Get(ctx, g.ID)
	assert.Empty(t, stale.MemberIDs, "cache still holds the old value")

	s.Invalidate(ctx, g.ID)
	fresh, ok := s.Get(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, changed.MemberIDs, fresh.MemberIDs)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	heap := newMapTier("heap")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap}, nil)
	a, b := newGuild(t, "A"), newGuild(t, "B")
	require.NoError(t, s.Put(ctx, a))
	require.NoError(t, s.Put(ctx, b))

	require.NoError(t, s.Delete(ctx, a.ID))

	_, ok := s.Get(ctx, a.ID)
	assert.False(t, ok)
	assert.False(t, heap.has(a.ID))
	all := collect(s.All(ctx))
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestStore_Delete_EvictsEvenWhenBackingFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	heap := newMapTier("heap")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, s.Put(ctx, g))

	backing.delErr = errors.New("disk on fire")
	err := s.Delete(ctx, g.ID)

	assert.Error(t, err)
	assert.False(t, heap.has(g.ID))
}

func TestStore_All_ReadsThroughCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, backing := newBacking(t)
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{NewHeapTier[model.Guild](10, time.Hour)}, nil)
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, s.Put(ctx, newGuild(t, n)))
	}

	assert.Len(t, collect(s.All(ctx)), 3)
	assert.Equal(t, int64(0), backing.gets.Load())
}

func TestStore_ConcurrentPutsLastWriterVisible(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{NewHeapTier[model.Guild](10, time.Hour)}, nil)
	g := newGuild(t, "Knights")
	require.NoError(t, s.Put(ctx, g))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx, g.ID)
			assert.NoError(t, s.Put(ctx, g.WithMember(uuid.New())))
		}()
	}
	wg.Wait()

	cached, ok := s.Get(ctx, g.ID)
	require.True(t, ok)
	onDisk, ok := fs.Get(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, onDisk, cached, "cache and file agree after concurrent writes")
}

func TestStore_Get_SlowTierBackfillDoesNotUndoConcurrentPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, backing := newBacking(t)
	heap, disk := newMapTier("heap"), newGatedTier("disk")
	s := NewStore[model.Guild](model.KindGuild, backing, []Tier[model.Guild]{heap, disk}, nil)
	old := newGuild(t, "Old")
	require.NoError(t, s.Put(ctx, old))

	// heap evicted the record; the next read is served by the disk tier
	require.NoError(t, heap.Delete(ctx, old.ID))
	disk.armed.Store(true)

	readDone := make(chan model.Guild)
	go func() {
		g, _ := s.Get(ctx, old.ID)
		readDone <- g
	}()
	<-disk.entered

	renamed := old
	renamed.Name = "New"
	putDone := make(chan error)
	go func() { putDone <- s.Put(ctx, renamed) }()

	time.Sleep(20 * time.Millisecond)
	close(disk.release)

	assert.Equal(t, "Old", (<-readDone).Name, "the read started before the write")
	require.NoError(t, <-putDone)

	onDisk, ok := fs.Get(ctx, old.ID)
	require.True(t, ok)
	cached, ok, err := heap.Get(ctx, old.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "New", onDisk.Name)
	assert.Equal(t, "New", cached.Name, "heap agrees with the file after the write")

	got, ok := s.Get(ctx, old.ID)
	require.True(t, ok)
	assert.Equal(t, "New", got.Name)
}
