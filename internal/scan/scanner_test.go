package scan_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treepanel/internal/config"
	"treepanel/internal/scan"
	"treepanel/internal/sorting"
	"treepanel/pkg/testutils"
	"treepanel/pkg/types"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, []string{
		"zebra.txt",
		"apple.txt",
		"docs/",
		"docs/readme.md",
		".hidden",
		"skipme.tmp",
	})

	cfg := config.New()
	cfg.Panel.Ignore = []string{"*.tmp"}
	scanner, err := scan.New(cfg)
	require.NoError(t, err)

	tr, paths, err := scanner.Build(dir, sorting.SortConfig{GroupByType: true})
	require.NoError(t, err)

	kids, err := tr.Children(tr.Root().ID)
	require.NoError(t, err)

	names := make([]string, len(kids))
	for i, e := range kids {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"docs", "apple.txt", "zebra.txt"}, names,
		"hidden and ignored entries skipped, directories first")

	// The path index covers every scanned entry.
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Contains(t, paths, filepath.Join(abs, "docs", "readme.md"))
	assert.NotContains(t, paths, filepath.Join(abs, ".hidden"))

	docsID := paths[filepath.Join(abs, "docs")]
	docsKids, err := tr.Children(docsID)
	require.NoError(t, err)
	require.Len(t, docsKids, 1)
	assert.Equal(t, "readme.md", docsKids[0].Name)
	assert.Equal(t, types.KindFile, docsKids[0].Kind)
}

func TestBuildShowHidden(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, []string{".env", "main.go"})

	cfg := config.New()
	cfg.Panel.ShowHidden = true
	scanner, err := scan.New(cfg)
	require.NoError(t, err)

	tr, _, err := scanner.Build(dir, sorting.SortConfig{})
	require.NoError(t, err)

	kids, err := tr.Children(tr.Root().ID)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, ".env", kids[0].Name)
}

func TestBuildRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, []string{"plain.txt"})

	scanner, err := scan.New(config.New())
	require.NoError(t, err)

	_, _, err = scanner.Build(filepath.Join(dir, "plain.txt"), sorting.SortConfig{})
	assert.Error(t, err)
}

func TestNewRejectsBadPattern(t *testing.T) {
	cfg := config.New()
	cfg.Panel.Ignore = []string{"[unclosed"}

	_, err := scan.New(cfg)
	assert.Error(t, err)
}
