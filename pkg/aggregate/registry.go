package aggregate

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNilResult is returned when replacing a registry's content with nil.
var ErrNilResult = errors.New("cannot replace registry content with a nil result")

// Registry holds the latest aggregation result and swaps it atomically.
// Readers never observe a partially merged result.
type Registry[T any] struct {
	mu       sync.RWMutex
	current  *Result[T]
	version  string
	loadTime time.Time
	reloads  int
}

// RegistryStats summarizes the registry content.
type RegistryStats struct {
	RunID      string    `json:"run_id"`
	Entries    int       `json:"entries"`
	Files      int       `json:"files"`
	Failures   int       `json:"failures"`
	Collisions int       `json:"collisions"`
	Version    string    `json:"version"`
	LoadTime   time.Time `json:"load_time"`
	Reloads    int       `json:"reloads"`
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Replace installs result and reports whether its content differs from the
// previous one, as measured by Version.
func (r *Registry[T]) Replace(result *Result[T]) (bool, error) {
	if result == nil {
		return false, ErrNilResult
	}

	version := computeVersion(result.Files)

	r.mu.Lock()
	defer r.mu.Unlock()

	changed := r.current == nil || version != r.version
	r.current = result
	r.version = version
	r.loadTime = time.Now()
	r.reloads++

	return changed, nil
}

// Snapshot returns the current result, or nil before the first Replace.
// The result must not be modified.
func (r *Registry[T]) Snapshot() *Result[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Get returns the entry for stem.
func (r *Registry[T]) Get(stem string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		var zero T
		return zero, false
	}
	return r.current.Get(stem)
}

// Stems returns the sorted entry keys.
func (r *Registry[T]) Stems() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil
	}
	return r.current.Stems()
}

// Count returns the number of entries.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return 0
	}
	return r.current.Len()
}

// Version returns a content hash of the current result.
func (r *Registry[T]) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// LoadTime returns when the current result was installed.
func (r *Registry[T]) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadTime
}

// Stats returns a summary of the registry content.
func (r *Registry[T]) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		Version:  r.version,
		LoadTime: r.loadTime,
		Reloads:  r.reloads,
	}
	if r.current != nil {
		stats.RunID = r.current.RunID
		stats.Entries = r.current.Len()
		stats.Files = len(r.current.Files)
		stats.Failures = len(r.current.Failures())
		stats.Collisions = len(r.current.Collisions)
	}
	return stats
}

// computeVersion hashes every file's path, status and checksum in discovery
// order. Identical trees produce identical versions.
func computeVersion(files []FileStatus) string {
	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", f.Path, f.Status, f.Checksum)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
