// Package cache puts tiered caches in front of file-backed record stores.
//
// Every record type gets its own Store, composed around a database.Store and
// a stack of tiers:
//
//   - heap: bounded in-process cache of decoded records (sturdyc)
//   - disk: encoded records snapshotted to CACHE_DIR on shutdown (go-cache)
//   - remote: optional memcached or redis tier shared between processes
//
// Reads are read-through and writes are write-through: the backing store is
// always written before any tier, so a crash can leave a stale or missing
// cache entry but never loses data. Tier failures are logged and otherwise
// ignored.
//
// Derived views that join several records are not cached here; callers that
// mutate a record outside Put should call Invalidate.
package cache
