// Package config loads and validates shellkit configuration from YAML.
// Defaults are usable without any file; an explicit file overrides them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
)

// Default configuration values exported for documentation and validation
const (
	DefaultBreakpointPreset = "standard"
	DefaultSidebarRatio     = 0.22
	DefaultSidebarMinRatio  = 0.12
	DefaultSidebarMaxRatio  = 0.5
	DefaultSidebarMinTier   = "md"
	DefaultMaxToasts        = 5
	DefaultToastTTL         = 4 * time.Second
	DefaultTickRate         = 250 * time.Millisecond
)

// Config is the complete shellkit configuration.
type Config struct {
	Breakpoints BreakpointConfig `yaml:"breakpoints"`
	Sidebar     SidebarConfig    `yaml:"sidebar"`
	Overlays    OverlayConfig    `yaml:"overlays"`
	Layout      LayoutConfig     `yaml:"layout"`
	TickRate    Duration         `yaml:"tick_rate"`
}

// Duration wraps time.Duration so YAML accepts "250ms"-style strings as
// well as integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// BreakpointConfig selects the tier table. Custom thresholds take
// precedence over the preset.
type BreakpointConfig struct {
	Preset     string            `yaml:"preset"` // "standard" or "compact"
	Thresholds []ThresholdConfig `yaml:"thresholds"`
}

// ThresholdConfig is one tier entry in a custom breakpoint table.
type ThresholdConfig struct {
	Tier     string `yaml:"tier"`
	MinWidth int    `yaml:"min_width"`
}

// SidebarConfig tunes the sidebar pane and its auto-collapse point.
type SidebarConfig struct {
	Ratio    float64 `yaml:"ratio"`
	MinRatio float64 `yaml:"min_ratio"`
	MaxRatio float64 `yaml:"max_ratio"`
	MinTier  string  `yaml:"min_tier"` // collapse below this tier
}

// OverlayConfig tunes overlay stack behavior.
type OverlayConfig struct {
	StackableModals bool     `yaml:"stackable_modals"`
	LightDismiss    bool     `yaml:"light_dismiss"`
	MaxToasts       int      `yaml:"max_toasts"`
	ToastTTL        Duration `yaml:"toast_ttl"`
}

// LayoutConfig controls geometry persistence.
type LayoutConfig struct {
	StatePath  string `yaml:"state_path"`
	WatchState bool   `yaml:"watch_state"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Breakpoints: BreakpointConfig{Preset: DefaultBreakpointPreset},
		Sidebar: SidebarConfig{
			Ratio:    DefaultSidebarRatio,
			MinRatio: DefaultSidebarMinRatio,
			MaxRatio: DefaultSidebarMaxRatio,
			MinTier:  DefaultSidebarMinTier,
		},
		Overlays: OverlayConfig{
			LightDismiss: true,
			MaxToasts:    DefaultMaxToasts,
			ToastTTL:     Duration(DefaultToastTTL),
		},
		Layout: LayoutConfig{
			StatePath: defaultStatePath(),
		},
		TickRate: Duration(DefaultTickRate),
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults; a malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads from SHELLKIT_CONFIG if set, else the user config dir.
func LoadDefault() (*Config, error) {
	if path := os.Getenv("SHELLKIT_CONFIG"); path != "" {
		return Load(path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(filepath.Join(dir, "shellkit", "config.yaml"))
}

// Validate checks cross-field constraints. Breakpoint tables are validated
// strictly: a malformed table must fail before the shell starts.
func (c *Config) Validate() error {
	if _, err := c.Thresholds(); err != nil {
		return err
	}
	if c.Sidebar.MinRatio < 0 || c.Sidebar.MaxRatio > 1 || c.Sidebar.MinRatio > c.Sidebar.MaxRatio {
		return fmt.Errorf("sidebar: invalid ratio bounds [%v, %v]", c.Sidebar.MinRatio, c.Sidebar.MaxRatio)
	}
	if c.Sidebar.MinTier != "" {
		if _, err := breakpoint.ParseTier(c.Sidebar.MinTier); err != nil {
			return fmt.Errorf("sidebar: %w", err)
		}
	}
	if c.Overlays.MaxToasts < 0 {
		return fmt.Errorf("overlays: max_toasts must be >= 0, got %d", c.Overlays.MaxToasts)
	}
	if c.TickRate < 0 {
		return fmt.Errorf("tick_rate must be >= 0, got %v", c.TickRate)
	}
	return nil
}

// Thresholds resolves the configured breakpoint table.
func (c *Config) Thresholds() ([]breakpoint.Threshold, error) {
	if len(c.Breakpoints.Thresholds) > 0 {
		out := make([]breakpoint.Threshold, 0, len(c.Breakpoints.Thresholds))
		for _, t := range c.Breakpoints.Thresholds {
			tier, err := breakpoint.ParseTier(t.Tier)
			if err != nil {
				return nil, fmt.Errorf("breakpoints: %w", err)
			}
			out = append(out, breakpoint.Threshold{Tier: tier, MinWidth: t.MinWidth})
		}
		return out, nil
	}
	switch c.Breakpoints.Preset {
	case "", "standard":
		return breakpoint.Standard(), nil
	case "compact":
		return breakpoint.Compact(), nil
	default:
		return nil, fmt.Errorf("breakpoints: unknown preset %q", c.Breakpoints.Preset)
	}
}

// SidebarMinTier resolves the auto-collapse tier, TierXS when unset.
func (c *Config) SidebarMinTier() breakpoint.Tier {
	if c.Sidebar.MinTier == "" {
		return breakpoint.TierXS
	}
	tier, err := breakpoint.ParseTier(c.Sidebar.MinTier)
	if err != nil {
		return breakpoint.TierXS
	}
	return tier
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "shellkit-layout.json")
	}
	return filepath.Join(dir, "shellkit", "layout.json")
}
