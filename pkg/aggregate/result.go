package aggregate

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Status is the outcome of processing one file.
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"        // parsed, zero pairs, dropped
	StatusSyntaxError Status = "syntax_error" // not valid script, skipped
	StatusIOError     Status = "io_error"     // unreadable or too large, skipped
)

// FileStatus describes one discovered file.
type FileStatus struct {
	Path     string        `json:"path"`
	Stem     string        `json:"stem"`
	Status   Status        `json:"status"`
	Pairs    int           `json:"pairs"`
	Bytes    int64         `json:"bytes"`
	Checksum string        `json:"checksum,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Error returns the failure message, or "" for files that loaded.
func (s FileStatus) Error() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Collision records two files with the same stem. Kept replaced Replaced.
type Collision struct {
	Stem     string `json:"stem"`
	Replaced string `json:"replaced"`
	Kept     string `json:"kept"`
}

// Result is the outcome of one aggregation.
type Result[T any] struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	Subpath    string        `json:"subpath"`
	Entries    map[string]T  `json:"entries"`
	Files      []FileStatus  `json:"files"`
	Collisions []Collision   `json:"collisions,omitempty"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
}

// Len returns the number of entries.
func (r *Result[T]) Len() int {
	return len(r.Entries)
}

// Get returns the entry for stem.
func (r *Result[T]) Get(stem string) (T, bool) {
	v, ok := r.Entries[stem]
	return v, ok
}

// Stems returns the entry keys, sorted.
func (r *Result[T]) Stems() []string {
	stems := make([]string, 0, len(r.Entries))
	for stem := range r.Entries {
		stems = append(stems, stem)
	}
	sort.Strings(stems)
	return stems
}

// Failures returns the files that failed to read or parse, in discovery order.
func (r *Result[T]) Failures() []FileStatus {
	var out []FileStatus
	for _, f := range r.Files {
		if f.Status == StatusSyntaxError || f.Status == StatusIOError {
			out = append(out, f)
		}
	}
	return out
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
