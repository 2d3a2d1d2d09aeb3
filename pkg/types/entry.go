package types

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EntryKind distinguishes directories from files. There is no third kind.
type EntryKind int

const (
	KindDirectory EntryKind = iota
	KindFile
)

// String returns a human-readable kind name
func (k EntryKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Entry represents one filesystem object visible in the tree.
// The tree owns entries top-down; Parent is a back-reference for
// traversal only and never implies ownership.
type Entry struct {
	ID     string
	Name   string
	Kind   EntryKind
	Parent *Entry
}

// NewEntry creates an entry with a fresh identity.
func NewEntry(name string, kind EntryKind) *Entry {
	return &Entry{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
	}
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Extension returns the entry's normalized (lowercase, no dot) extension.
// Directories, extensionless files, and bare dotfiles like ".gitignore"
// return the empty string, which sorts before all real extensions.
func (e *Entry) Extension() string {
	if e.Kind == KindDirectory {
		return ""
	}
	ext := filepath.Ext(e.Name)
	if ext == "" || ext == e.Name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// SortKey is the projection of an Entry that the comparator orders by.
type SortKey struct {
	KindClass      EntryKind
	ComparableName string // case-folded form of Name
	RawName        string // original casing, for tie-breaks
	Ext            string // normalized extension, "" when absent
}
