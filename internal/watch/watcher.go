// Package watch translates filesystem events into tree mutations using
// fsnotify. Renames arrive from fsnotify as separate rename/create events
// with no pairing, so a rename is modeled as remove-plus-add; callers that
// know both names can use tree.Rename directly to preserve identity.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"treepanel/internal/log"
	"treepanel/internal/scan"
	"treepanel/internal/tree"
	"treepanel/pkg/types"
)

// Watcher feeds filesystem events into a tree via its coordinator API.
// A Watcher is single-use: once stopped, the underlying fsnotify watcher is
// closed and the instance cannot be started again; create a new one instead.
type Watcher struct {
	tree     *tree.Tree
	scanner  *scan.Scanner
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}

	// Lock for the running/stopped flags and the path index
	mutex   sync.Mutex
	running bool
	stopped bool
	paths   map[string]string // absolute path -> entry ID
}

// New creates a watcher over an already-scanned tree. The paths index must
// be the one produced by the scanner that built the tree.
func New(t *tree.Tree, s *scan.Scanner, paths map[string]string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		tree:      t,
		scanner:   s,
		debounce:  debounce,
		fsWatcher: fsWatcher,
		stopChan:  make(chan struct{}),
		paths:     paths,
	}, nil
}

// Start registers watches for every directory currently in the tree and
// begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if w.stopped {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.running = true
	dirs := w.directoriesLocked()
	w.mutex.Unlock()

	for _, dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.loop()

	log.LogWithFields(log.F("directories", len(dirs))).Info("Watcher started")
	return nil
}

// Stop halts the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	w.stopped = true
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.running
}

// loop drains fsnotify events, batching them over the debounce window so a
// burst of changes to one directory triggers a single re-sort per directory.
func (w *Watcher) loop() {
	var pending []fsnotify.Event
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		for _, event := range pending {
			w.handle(event)
		}
		pending = pending[:0]
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				flush()
				return
			}
			if w.debounce <= 0 {
				w.handle(event)
				continue
			}
			pending = append(pending, event)
			timer.Reset(w.debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				flush()
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			flush()
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	switch {
	case event.Op.Has(fsnotify.Create):
		w.handleCreate(name)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// A rename delivers the old path here; the new path follows as a
		// Create with a fresh identity.
		w.handleRemove(name)
	}
	// Write and Chmod don't change membership or names; ordering is
	// unaffected.
}

func (w *Watcher) handleCreate(path string) {
	base := filepath.Base(path)
	if w.scanner.Skip(base) {
		return
	}

	w.mutex.Lock()
	if _, known := w.paths[path]; known {
		w.mutex.Unlock()
		return
	}
	parentID, ok := w.paths[filepath.Dir(path)]
	w.mutex.Unlock()
	if !ok {
		log.LogWithFields(log.F("path", path)).Debug("Create outside known tree, ignoring")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// Gone again before we could stat it; the matching remove event
		// will be a no-op too.
		return
	}

	kind := types.KindFile
	if info.IsDir() {
		kind = types.KindDirectory
	}
	e := types.NewEntry(base, kind)

	if err := w.tree.ApplyChanges(parentID, []*types.Entry{e}, nil); err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err)).Warn("Failed to apply create")
		return
	}

	w.mutex.Lock()
	w.paths[path] = e.ID
	w.mutex.Unlock()

	if info.IsDir() {
		w.mutex.Lock()
		if err := w.scanner.ScanDir(w.tree, w.paths, path, e.ID); err != nil {
			log.LogWithFields(log.F("path", path), log.F("error", err)).Warn("Failed to scan new directory")
		}
		dirs := w.directoriesLocked()
		w.mutex.Unlock()

		for _, dir := range dirs {
			if dir == path || strings.HasPrefix(dir, path+string(os.PathSeparator)) {
				if err := w.fsWatcher.Add(dir); err != nil {
					log.LogWithFields(log.F("directory", dir), log.F("error", err)).Warn("Failed to watch new directory")
				}
			}
		}
	}

	log.LogWithFields(log.F("path", path), log.F("kind", kind.String())).Debug("Entry added")
}

func (w *Watcher) handleRemove(path string) {
	w.mutex.Lock()
	id, ok := w.paths[path]
	if !ok {
		w.mutex.Unlock()
		return
	}
	parentID, hasParent := w.paths[filepath.Dir(path)]

	// Drop the path and everything beneath it from the index; the tree
	// removes the subtree itself.
	prefix := path + string(os.PathSeparator)
	for p := range w.paths {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(w.paths, p)
		}
	}
	w.mutex.Unlock()

	if !hasParent {
		return
	}
	if err := w.tree.ApplyChanges(parentID, nil, []string{id}); err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err)).Warn("Failed to apply remove")
		return
	}
	log.LogWithFields(log.F("path", path)).Debug("Entry removed")
}

// directoriesLocked lists every known directory path. Caller holds the lock.
func (w *Watcher) directoriesLocked() []string {
	var dirs []string
	for path, id := range w.paths {
		if e, ok := w.tree.Entry(id); ok && e.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs
}
