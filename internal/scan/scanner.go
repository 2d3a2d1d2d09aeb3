// Package scan builds the initial entry tree from disk. The ordering core
// never touches the filesystem itself; the scanner decides what entries
// exist and hands them to the coordinator.
package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"treepanel/internal/config"
	serr "treepanel/internal/errors"
	"treepanel/internal/log"
	"treepanel/internal/sorting"
	"treepanel/internal/tree"
	"treepanel/pkg/types"
)

// Scanner reads directories from disk and populates a tree.
type Scanner struct {
	showHidden bool
	ignore     []glob.Glob
}

// New creates a scanner from the panel configuration. Ignore patterns must
// compile; config.Validate catches bad ones earlier, but direct construction
// gets the same check.
func New(cfg *config.Config) (*Scanner, error) {
	s := &Scanner{showHidden: cfg.Panel.ShowHidden}
	for _, pattern := range cfg.Panel.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, serr.NewConfigError("invalid ignore pattern", pattern, serr.InvalidPattern, err)
		}
		s.ignore = append(s.ignore, g)
	}
	return s, nil
}

// Build scans root recursively and returns a populated tree plus a mapping
// from absolute path to entry ID. The watch adapter uses the mapping to
// translate filesystem events into tree mutations.
func (s *Scanner) Build(root string, cfg sorting.SortConfig) (*tree.Tree, map[string]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, serr.Wrapf(err, "cannot access %s", root)
	}
	if !info.IsDir() {
		return nil, nil, serr.NewTreeError("scan root is not a directory", root, serr.NotADirectory, nil)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, serr.Wrapf(err, "cannot resolve %s", root)
	}

	t := tree.New(filepath.Base(abs), cfg)
	paths := map[string]string{abs: t.Root().ID}

	if err := s.scanDir(t, paths, abs, t.Root().ID); err != nil {
		return nil, nil, err
	}

	log.LogWithFields(log.F("root", abs), log.F("entries", t.Len())).Debug("Scan complete")
	return t, paths, nil
}

// ScanDir reads one on-disk directory into an existing tree directory.
// Used by the watcher when a directory appears under a watched path.
func (s *Scanner) ScanDir(t *tree.Tree, paths map[string]string, dirPath, dirID string) error {
	return s.scanDir(t, paths, dirPath, dirID)
}

func (s *Scanner) scanDir(t *tree.Tree, paths map[string]string, dirPath, dirID string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return serr.Wrapf(err, "cannot read %s", dirPath)
	}

	var added []*types.Entry
	for _, de := range entries {
		if s.Skip(de.Name()) {
			continue
		}
		kind := types.KindFile
		if de.IsDir() {
			kind = types.KindDirectory
		}
		e := types.NewEntry(de.Name(), kind)
		added = append(added, e)
		paths[filepath.Join(dirPath, de.Name())] = e.ID
	}

	if err := t.ApplyChanges(dirID, added, nil); err != nil {
		return err
	}

	for _, e := range added {
		if e.IsDir() {
			if err := s.scanDir(t, paths, filepath.Join(dirPath, e.Name), e.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Skip reports whether the scanner ignores a name: hidden entries unless
// configured otherwise, and anything matching an ignore pattern.
func (s *Scanner) Skip(name string) bool {
	if !s.showHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range s.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
