// Package tree maintains a live directory tree and keeps every directory's
// child ordering consistent with the active sort configuration.
package tree

import (
	"sort"
	"sync"

	serr "treepanel/internal/errors"
	"treepanel/internal/log"
	"treepanel/internal/sorting"
	"treepanel/pkg/types"
)

// Tree is the sort coordinator. It owns the entries, the per-directory child
// orderings, and the active SortConfig. One mutex covers config, structure,
// and orderings so a config swap and its re-sort are never observed torn.
type Tree struct {
	mu       sync.Mutex
	root     *types.Entry
	index    map[string]*types.Entry
	children map[string][]*types.Entry
	cfg      sorting.SortConfig
	subs     []chan string
}

// New creates a tree whose root directory carries the given display name.
func New(rootName string, cfg sorting.SortConfig) *Tree {
	root := types.NewEntry(rootName, types.KindDirectory)
	t := &Tree{
		root:     root,
		index:    map[string]*types.Entry{root.ID: root},
		children: map[string][]*types.Entry{root.ID: {}},
		cfg:      cfg,
	}
	return t
}

// Root returns the root directory entry.
func (t *Tree) Root() *types.Entry {
	return t.root
}

// Config returns the active sort configuration.
func (t *Tree) Config() sorting.SortConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Entry looks up an entry by identity.
func (t *Tree) Entry(id string) (*types.Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.index[id]
	return e, ok
}

// InstallConfig replaces the active SortConfig and eagerly re-sorts every
// directory before returning, so readers never observe a mix of old- and
// new-config orderings. Installing an identical config is a no-op and emits
// no notifications.
func (t *Tree) InstallConfig(cfg sorting.SortConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cfg == t.cfg {
		return
	}
	t.cfg = cfg

	for dirID := range t.children {
		if t.resortLocked(dirID) {
			t.notifyLocked(dirID)
		}
	}
}

// ApplyChanges applies membership changes to one directory's child set and
// re-sorts exactly that directory. Sibling and ancestor orderings are
// untouched. Removing a directory removes its whole subtree.
//
// References to identities the tree does not hold are integration errors:
// they are logged, skipped, and reported via the returned error so callers
// that want to assert on them can.
func (t *Tree) ApplyChanges(dirID string, added []*types.Entry, removed []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.index[dirID]
	if !ok {
		err := serr.NewTreeError("changes reference unknown directory", dirID, serr.EntryNotFound, nil)
		log.LogWithFields(log.F("directory", dirID)).Warn("Ignoring changes for unknown directory")
		return err
	}
	if !dir.IsDir() {
		err := serr.NewTreeError("changes reference a non-directory entry", dirID, serr.NotADirectory, nil)
		log.LogWithFields(log.F("entry", dirID)).Warn("Ignoring changes for non-directory entry")
		return err
	}

	var firstErr error
	changed := false
	for _, id := range removed {
		child, ok := t.index[id]
		if !ok || child.Parent == nil || child.Parent.ID != dirID {
			if firstErr == nil {
				firstErr = serr.NewTreeError("removal references unknown child", id, serr.IntegrityViolation, nil)
			}
			log.LogWithFields(log.F("directory", dirID), log.F("entry", id)).
				Warn("Ignoring removal of unknown child")
			continue
		}
		t.removeSubtreeLocked(child)
		t.children[dirID] = dropChild(t.children[dirID], id)
		changed = true
	}

	for _, e := range added {
		if _, exists := t.index[e.ID]; exists {
			if firstErr == nil {
				firstErr = serr.NewTreeError("added entry already present", e.ID, serr.IntegrityViolation, nil)
			}
			log.LogWithFields(log.F("directory", dirID), log.F("entry", e.ID)).
				Warn("Ignoring duplicate entry addition")
			continue
		}
		e.Parent = dir
		t.index[e.ID] = e
		if e.IsDir() {
			t.children[e.ID] = []*types.Entry{}
		}
		t.children[dirID] = append(t.children[dirID], e)
		changed = true
	}

	// Same semantics as InstallConfig: only an observable change notifies.
	if t.resortLocked(dirID) || changed {
		t.notifyLocked(dirID)
	}
	return firstErr
}

// Rename updates an entry's name in place, preserving its identity, and
// re-sorts only the owning directory.
func (t *Tree) Rename(entryID, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.index[entryID]
	if !ok {
		err := serr.NewTreeError("rename references unknown entry", entryID, serr.EntryNotFound, nil)
		log.LogWithFields(log.F("entry", entryID)).Warn("Ignoring rename of unknown entry")
		return err
	}
	e.Name = newName
	if e.Parent != nil {
		t.resortLocked(e.Parent.ID)
		t.notifyLocked(e.Parent.ID)
	}
	return nil
}

// Children returns the current ordered children of a directory, reflecting
// every prior InstallConfig and ApplyChanges call. The returned slice is a
// copy; callers may hold it across later mutations.
func (t *Tree) Children(dirID string) ([]*types.Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kids, ok := t.children[dirID]
	if !ok {
		return nil, serr.NewTreeError("unknown directory", dirID, serr.EntryNotFound, nil)
	}
	out := make([]*types.Entry, len(kids))
	copy(out, kids)
	return out, nil
}

// Len returns the number of entries in the tree, root included.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.index)
}

// Subscribe registers a listener for re-sort notifications. Each message is
// the ID of a directory whose ordering was recomputed, so a renderer can
// repaint that subtree only. Sends never block; a slow consumer misses
// notifications instead of stalling mutations.
func (t *Tree) Subscribe(buffer int) <-chan string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan string, buffer)
	t.subs = append(t.subs, ch)
	return ch
}

// Walk visits the tree depth-first in display order, calling fn with each
// entry and its depth. The root is depth 0.
func (t *Tree) Walk(fn func(e *types.Entry, depth int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.walkLocked(t.root, 0, fn)
}

func (t *Tree) walkLocked(e *types.Entry, depth int, fn func(*types.Entry, int)) {
	fn(e, depth)
	for _, child := range t.children[e.ID] {
		t.walkLocked(child, depth+1, fn)
	}
}

// resortLocked stably re-sorts one directory's children under the active
// config and reports whether the order changed.
func (t *Tree) resortLocked(dirID string) bool {
	kids := t.children[dirID]
	if len(kids) < 2 {
		return false
	}
	before := make([]*types.Entry, len(kids))
	copy(before, kids)

	cfg := t.cfg
	sort.SliceStable(kids, func(i, j int) bool {
		return sorting.Compare(kids[i], kids[j], cfg) < 0
	})

	for i := range kids {
		if kids[i] != before[i] {
			return true
		}
	}
	return false
}

func (t *Tree) removeSubtreeLocked(e *types.Entry) {
	for _, child := range t.children[e.ID] {
		t.removeSubtreeLocked(child)
	}
	delete(t.children, e.ID)
	delete(t.index, e.ID)
	e.Parent = nil
}

func (t *Tree) notifyLocked(dirID string) {
	for _, ch := range t.subs {
		select {
		case ch <- dirID:
		default:
		}
	}
}

func dropChild(kids []*types.Entry, id string) []*types.Entry {
	for i, c := range kids {
		if c.ID == id {
			return append(kids[:i], kids[i+1:]...)
		}
	}
	return kids
}
