package repository

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/forgo/gildr/internal/repository")

// Invalidator is implemented by caching stores. Repositories call it after
// mutating a record so the next read goes back to the file.
type Invalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

func invalidate(ctx context.Context, store any, id uuid.UUID) {
	if inv, ok := store.(Invalidator); ok {
		inv.Invalidate(ctx, id)
	}
}

// keyedMutex hands out one mutex per id. An entry lives only while some
// caller holds or waits for it.
type keyedMutex struct {
	locks *xsync.MapOf[uuid.UUID, *refMutex]
}

type refMutex struct {
	sync.Mutex
	refs int // guarded by the map's per-key Compute
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: xsync.NewMapOf[uuid.UUID, *refMutex]()}
}

func (k *keyedMutex) lock(id uuid.UUID) func() {
	mu, _ := k.locks.Compute(id, func(mu *refMutex, loaded bool) (*refMutex, bool) {
		if !loaded {
			mu = &refMutex{}
		}
		mu.refs++
		return mu, false
	})
	mu.Lock()
	return func() {
		mu.Unlock()
		k.locks.Compute(id, func(mu *refMutex, _ bool) (*refMutex, bool) {
			mu.refs--
			return mu, mu.refs == 0
		})
	}
}

// size reports how many ids currently have a live mutex
func (k *keyedMutex) size() int {
	return k.locks.Size()
}

// filter collects the records of seq for which keep is true
func filter[T any](seq iter.Seq[T], keep func(T) bool) []T {
	out := []T{}
	for v := range seq {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// sortByName orders by case-folded name, then id for stability
func sortByName[T any](items []T, name func(T) string, id func(T) uuid.UUID) {
	slices.SortFunc(items, func(a, b T) int {
		if c := cmp.Compare(strings.ToLower(name(a)), strings.ToLower(name(b))); c != 0 {
			return c
		}
		return cmp.Compare(id(a).String(), id(b).String())
	})
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
