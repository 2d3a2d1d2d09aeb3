package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treepanel/internal/config"
	serr "treepanel/internal/errors"
	"treepanel/pkg/types"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
sort:
  strategy: "natural"
  reversed: true
  uppercase_first: true
  group_by_type: true
panel:
  root: "/home/test/project"
  show_hidden: true
  ignore: ["node_modules", "*.tmp"]
watch:
  enabled: true
  debounce_ms: 250
`

const unknownStrategyYAML = `
sort:
  strategy: "by_mood"
`

const badPatternYAML = `
panel:
  ignore: ["[unclosed"]
`

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "natural", cfg.Sort.Strategy)
		assert.True(t, cfg.Sort.Reversed)
		assert.True(t, cfg.Sort.UppercaseFirst)
		assert.True(t, cfg.Sort.GroupByType)
		assert.Equal(t, "/home/test/project", cfg.Panel.Root)
		assert.True(t, cfg.Panel.ShowHidden)
		assert.Equal(t, []string{"node_modules", "*.tmp"}, cfg.Panel.Ignore)
		assert.True(t, cfg.Watch.Enabled)
		assert.Equal(t, 250, cfg.Watch.DebounceMs)
	})

	t.Run("load non-existent file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		defaults := config.New()
		assert.Equal(t, defaults.Sort.Strategy, cfg.Sort.Strategy)
		assert.Equal(t, defaults.Sort.GroupByType, cfg.Sort.GroupByType)
		assert.Equal(t, defaults.Panel.Root, cfg.Panel.Root)
		assert.Equal(t, defaults.Watch.DebounceMs, cfg.Watch.DebounceMs)
	})

	t.Run("partial file keeps defaults for unset fields", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "panel:\n  root: \"/somewhere\"\n"))
		require.NoError(t, err)

		defaults := config.New()
		assert.Equal(t, "/somewhere", cfg.Panel.Root)
		assert.Equal(t, defaults.Sort.GroupByType, cfg.Sort.GroupByType,
			"unset field must keep its default")
		assert.Equal(t, defaults.Sort.Strategy, cfg.Sort.Strategy)
		assert.Equal(t, defaults.Watch.DebounceMs, cfg.Watch.DebounceMs)
	})

	t.Run("explicit false overrides a true default", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "sort:\n  group_by_type: false\n"))
		require.NoError(t, err)
		assert.False(t, cfg.Sort.GroupByType)
	})

	t.Run("unknown strategy fails loudly", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, unknownStrategyYAML))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.True(t, serr.IsUnknownStrategy(err))
		assert.Contains(t, err.Error(), "by_mood", "error must name the offending value")
	})

	t.Run("bad ignore pattern fails", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, badPatternYAML))
		require.Error(t, err)
	})

	t.Run("invalid yaml syntax fails", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, "sort: [not a map"))
		require.Error(t, err)
	})
}

func TestParseStrategy(t *testing.T) {
	s, err := config.ParseStrategy("alphabetical")
	require.NoError(t, err)
	assert.Equal(t, types.StrategyAlphabetical, s)

	s, err = config.ParseStrategy("natural")
	require.NoError(t, err)
	assert.Equal(t, types.StrategyNatural, s)

	_, err = config.ParseStrategy("random")
	require.Error(t, err)
	assert.True(t, serr.IsUnknownStrategy(err))
}

func TestToSortConfig(t *testing.T) {
	cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
	require.NoError(t, err)

	sortCfg, err := cfg.ToSortConfig()
	require.NoError(t, err)
	assert.Equal(t, types.StrategyNatural, sortCfg.Strategy)
	assert.True(t, sortCfg.Reversed)
	assert.True(t, sortCfg.UppercaseFirst)
	assert.True(t, sortCfg.GroupByType)
}

func TestValidate(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Watch.DebounceMs = -1
	assert.Error(t, cfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Sort.Strategy = "natural"

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "natural", loaded.Sort.Strategy)
}
