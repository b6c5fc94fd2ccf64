package distributor

import (
	"sync"
	"time"
)

// completedRetention is how long a finished ProgressEntry is kept around
// after completion so the UI can render 100% before it disappears (spec.md
// §4.6.1 "Progress state").
const completedRetention = 2 * time.Second

// ProgressEntry is the single source of truth for UI polling of one game's
// in-flight install.
type ProgressEntry struct {
	TotalFiles      int
	DownloadedFiles int
	CurrentFile     string
	Percentage      float64
	CompletedAt     *time.Time
}

// ProgressTracker is a concurrent map of gameID to ProgressEntry, guarded by
// a single RWMutex per spec.md §5 "Progress map is a single RwLock-guarded
// map."
type ProgressTracker struct {
	mu      sync.RWMutex
	entries map[string]ProgressEntry
}

// NewProgressTracker returns an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{entries: make(map[string]ProgressEntry)}
}

// Start records the beginning of an install for gameID.
func (t *ProgressTracker) Start(gameID string, totalFiles int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[gameID] = ProgressEntry{TotalFiles: totalFiles}
}

// Update reports that downloaded out of total files are done for gameID,
// currently working on currentFile.
func (t *ProgressTracker) Update(gameID string, downloaded, total int, currentFile string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pct := 0.0
	if total > 0 {
		pct = float64(downloaded) / float64(total) * 100
	}
	t.entries[gameID] = ProgressEntry{
		TotalFiles:      total,
		DownloadedFiles: downloaded,
		CurrentFile:     currentFile,
		Percentage:      pct,
	}
}

// Complete marks gameID's install finished at 100%. The entry is retained
// for completedRetention before Evict removes it.
func (t *ProgressTracker) Complete(gameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[gameID]
	e.DownloadedFiles = e.TotalFiles
	e.Percentage = 100
	now := time.Now()
	e.CompletedAt = &now
	t.entries[gameID] = e
}

// Cancel removes the in-flight progress entry for gameID. Per spec.md
// §4.6.1, cancellation does not roll back partially written files — it only
// clears the progress map entry.
func (t *ProgressTracker) Cancel(gameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, gameID)
}

// Get returns a snapshot of gameID's progress, or (zero, false) if absent.
func (t *ProgressTracker) Get(gameID string) (ProgressEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[gameID]
	return e, ok
}

// EvictCompleted removes entries that completed more than completedRetention
// ago. Callers invoke this periodically (or a background goroutine does);
// it is not triggered automatically by Complete so tests can assert the
// 100% state deterministically before eviction.
func (t *ProgressTracker) EvictCompleted(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, e := range t.entries {
		if e.CompletedAt != nil && now.Sub(*e.CompletedAt) >= completedRetention {
			delete(t.entries, id)
		}
	}
}
