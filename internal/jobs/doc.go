// Package jobs implements background jobs for the gildr server.
//
// Jobs run on their own goroutine, independent of HTTP request handling,
// and follow the same lifecycle:
//
//	flusher := jobs.NewSnapshotFlusher(cacheManager, 5*time.Minute, logger)
//	flusher.Start()
//	defer flusher.Stop()
//
// Jobs log errors but never crash the process. A failed run is retried on
// the next tick.
package jobs
