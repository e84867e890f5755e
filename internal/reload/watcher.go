// Package reload detects changes to the files the accelconf command reads.
package reload

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
	missing bool
}

// Watcher keeps track of a set of files and detects modifications.
type Watcher struct {
	mu    sync.Mutex
	files map[string]fileState
}

// NewWatcher builds a watcher tracking the given files.
func NewWatcher(paths ...string) (*Watcher, error) {
	watcher := &Watcher{}
	if err := watcher.Update(paths...); err != nil {
		return nil, err
	}
	return watcher, nil
}

// Update replaces the tracked file list and snapshots every file. Files
// that do not exist yet are tracked and reported once they appear.
func (w *Watcher) Update(paths ...string) error {
	if w == nil {
		return nil
	}
	states := make(map[string]fileState, len(paths))
	for _, path := range uniquePaths(paths) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		states[path] = snapshot(path)
	}
	w.mu.Lock()
	w.files = states
	w.mu.Unlock()
	return nil
}

func snapshot(path string) fileState {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fileState{missing: true}
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}
}

// Check reports the files that changed since the last snapshot and takes
// a new snapshot of them.
func (w *Watcher) Check() ([]string, error) {
	if w == nil {
		return nil, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := make([]string, 0)
	for path, state := range w.files {
		current := snapshot(path)
		switch {
		case current.missing && state.missing:
			continue
		case current.missing != state.missing,
			current.modTime.After(state.modTime),
			current.size != state.size:
			changed = append(changed, path)
			w.files[path] = current
		}
	}
	sort.Strings(changed)
	return changed, nil
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
