package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// Flusher writes cached state to durable storage
type Flusher interface {
	Flush() error
}

// SnapshotFlusher periodically writes the cache disk snapshots so a crash
// loses at most one interval of cached entries
type SnapshotFlusher struct {
	target   Flusher
	interval time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSnapshotFlusher creates a new snapshot flusher job
func NewSnapshotFlusher(target Flusher, interval time.Duration, logger *slog.Logger) *SnapshotFlusher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotFlusher{
		target:   target,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the flusher job
func (f *SnapshotFlusher) Start() {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()

	f.wg.Add(1)
	go f.run()
	f.logger.Info("snapshot flusher started", "interval", f.interval)
}

// Stop gracefully stops the flusher job. It does not flush; the cache
// manager writes a final snapshot when it closes.
func (f *SnapshotFlusher) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.mu.Unlock()

	close(f.stopCh)
	f.wg.Wait()
	f.logger.Info("snapshot flusher stopped")
}

// run is the main loop
func (f *SnapshotFlusher) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := f.RunOnce(); err != nil {
				f.logger.Error("snapshot flush failed", "error", err)
			}
		case <-f.stopCh:
			return
		}
	}
}

// RunOnce flushes once (for testing or manual trigger)
func (f *SnapshotFlusher) RunOnce() error {
	return f.target.Flush()
}

// IsRunning returns whether the flusher is running
func (f *SnapshotFlusher) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}
