// Package config loads peek configuration.
//
// The config file lives at $XDG_CONFIG_HOME/peek/config.yaml
// (~/.config/peek/config.yaml by default). A missing file yields
// DefaultConfig; non-positive limits fall back to their defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flavono123/peek/internal/expansion"
	"github.com/flavono123/peek/internal/flatten"
	"github.com/flavono123/peek/internal/present"
	"github.com/flavono123/peek/internal/ui/theme"
)

// ExplorerConfig controls flattening and initial expansion.
type ExplorerConfig struct {
	RootKey       string `yaml:"root_key,omitempty"`
	MaxDepth      int    `yaml:"max_depth,omitempty"`       // clamped to 15
	ItemsPerLevel int    `yaml:"items_per_level,omitempty"` // clamped to 500
	Policy        string `yaml:"policy,omitempty"`          // collapsed, first-level, all
	DetectCycles  *bool  `yaml:"detect_cycles,omitempty"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	Theme            string `yaml:"theme,omitempty"` // mocha, macchiato, frappe, latte
	TruncateWidth    int    `yaml:"truncate_width,omitempty"`
	LongKeyThreshold int    `yaml:"long_key_threshold,omitempty"`
}

type Config struct {
	Explorer ExplorerConfig `yaml:"explorer,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
}

func DefaultConfig() Config {
	detect := true
	return Config{
		Explorer: ExplorerConfig{
			RootKey:       flatten.DefaultRootKey,
			MaxDepth:      flatten.DepthCeiling,
			ItemsPerLevel: flatten.ItemsPerLevelCap,
			Policy:        expansion.ExpandFirstLevel.String(),
			DetectCycles:  &detect,
		},
		UI: UIConfig{
			Theme:            "mocha",
			TruncateWidth:    present.DefaultTruncateWidth,
			LongKeyThreshold: present.DefaultLongKeyThreshold,
		},
	}
}

// ConfigDir returns the XDG config directory for peek.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppID)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppID)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config from the XDG config directory.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path. Returns DefaultConfig if the file
// doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate resets non-positive limits to their defaults and rejects an
// unknown expansion policy.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Explorer.RootKey == "" {
		c.Explorer.RootKey = def.Explorer.RootKey
	}
	if c.Explorer.MaxDepth <= 0 {
		c.Explorer.MaxDepth = def.Explorer.MaxDepth
	}
	if c.Explorer.ItemsPerLevel <= 0 {
		c.Explorer.ItemsPerLevel = def.Explorer.ItemsPerLevel
	}
	if c.Explorer.DetectCycles == nil {
		c.Explorer.DetectCycles = def.Explorer.DetectCycles
	}
	if c.UI.TruncateWidth <= 0 {
		c.UI.TruncateWidth = def.UI.TruncateWidth
	}
	if c.UI.LongKeyThreshold <= 0 {
		c.UI.LongKeyThreshold = def.UI.LongKeyThreshold
	}
	if _, err := expansion.ParsePolicy(c.Explorer.Policy); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// FlattenOptions builds engine options. The caller attaches a logger.
func (c Config) FlattenOptions() flatten.Options {
	return flatten.Options{
		RootKey:       c.Explorer.RootKey,
		MaxDepth:      c.Explorer.MaxDepth,
		ItemsPerLevel: c.Explorer.ItemsPerLevel,
		DetectCycles:  c.Explorer.DetectCycles == nil || *c.Explorer.DetectCycles,
	}
}

func (c Config) ExpansionPolicy() expansion.Policy {
	p, _ := expansion.ParsePolicy(c.Explorer.Policy)
	return p
}

func (c Config) Theme() theme.Theme {
	return theme.ByName(c.UI.Theme)
}

func (c Config) Presenter() present.Presenter {
	return present.Presenter{
		TruncateWidth: c.UI.TruncateWidth,
		Palette:       present.NewPalette(c.Theme()),
	}
}

func (c Config) Layout() present.Layout {
	return present.Layout{
		RowHeight:        present.DefaultRowHeight,
		LongKeyThreshold: c.UI.LongKeyThreshold,
	}
}
