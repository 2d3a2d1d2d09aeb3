// Package config loads and validates the panel configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	serr "treepanel/internal/errors"
	"treepanel/internal/sorting"
	"treepanel/pkg/types"
)

// Config represents the application configuration structure. The sort block
// is the surface consumed by the ordering engine; the panel and watch blocks
// configure the filesystem-facing collaborators around it.
type Config struct {
	Sort struct {
		Strategy       string `yaml:"strategy"`        // "alphabetical" or "natural"
		Reversed       bool   `yaml:"reversed"`        // Invert the whole order
		UppercaseFirst bool   `yaml:"uppercase_first"` // "Apple" before "apple"
		GroupByType    bool   `yaml:"group_by_type"`   // Directories first, files grouped by extension
	} `yaml:"sort"`
	Panel struct {
		Root       string   `yaml:"root"`        // Directory to display
		ShowHidden bool     `yaml:"show_hidden"` // Include dotfiles
		Ignore     []string `yaml:"ignore"`      // Glob patterns the scanner skips
	} `yaml:"panel"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // React to filesystem events
		DebounceMs int  `yaml:"debounce_ms"` // Event batching window
	} `yaml:"watch"`
}

// LoadConfig loads configuration from the default location
// (~/.config/treepanel/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filepath.Join(home, ".config", "treepanel", "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal directly over the default-initialized config so fields the
	// file does not mention keep their defaults, including booleans whose
	// default is true.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Sort.Strategy = "alphabetical"
	cfg.Sort.GroupByType = true
	cfg.Panel.Root = "."
	cfg.Panel.Ignore = []string{}
	cfg.Watch.DebounceMs = 100
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file, creating parent
// directories if needed.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ParseStrategy maps a configuration string onto a sort strategy. Unknown
// values are a configuration error, never a silent default.
func ParseStrategy(s string) (types.Strategy, error) {
	switch s {
	case "alphabetical":
		return types.StrategyAlphabetical, nil
	case "natural":
		return types.StrategyNatural, nil
	default:
		return 0, serr.NewConfigError(
			fmt.Sprintf("unknown sort strategy (expected one of %v)", types.StrategyNames),
			s, serr.UnknownStrategy, nil)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return serr.NewConfigError("nil config", "", serr.InvalidConfig, nil)
	}

	if _, err := ParseStrategy(c.Sort.Strategy); err != nil {
		return err
	}

	for _, pattern := range c.Panel.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return serr.NewConfigError("invalid ignore pattern", pattern, serr.InvalidPattern, err)
		}
	}

	if c.Watch.DebounceMs < 0 {
		return serr.NewConfigError("watch debounce must be >= 0 ms",
			fmt.Sprintf("%d", c.Watch.DebounceMs), serr.InvalidConfig, nil)
	}

	return nil
}

// ToSortConfig converts the validated sort block into the immutable value
// the comparator consumes.
func (c *Config) ToSortConfig() (sorting.SortConfig, error) {
	strategy, err := ParseStrategy(c.Sort.Strategy)
	if err != nil {
		return sorting.SortConfig{}, err
	}
	return sorting.SortConfig{
		Strategy:       strategy,
		Reversed:       c.Sort.Reversed,
		UppercaseFirst: c.Sort.UppercaseFirst,
		GroupByType:    c.Sort.GroupByType,
	}, nil
}
