// Package config loads the drift program configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/drift"
)

// Config holds all program configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Arena     ArenaConfig     `yaml:"arena"`
	Ambient   AmbientConfig   `yaml:"ambient"`
	Resize    ResizeConfig    `yaml:"resize"`
	Chat      ChatConfig      `yaml:"chat"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	ShowFPS       bool   `yaml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	Script        string `yaml:"script"` // optional JSON input script
}

// TierCounts is a population size per device tier.
type TierCounts struct {
	Mobile  int `yaml:"mobile"`
	Tablet  int `yaml:"tablet"`
	Desktop int `yaml:"desktop"`
}

// ArenaConfig configures the footer playground.
type ArenaConfig struct {
	Height       float64    `yaml:"height"`
	Counts       TierCounts `yaml:"counts"`
	MinRadius    float64    `yaml:"min_radius"`
	MaxRadius    float64    `yaml:"max_radius"`
	Restitution  float64    `yaml:"restitution"`
	Damping      float64    `yaml:"damping"`
	TrailChance  float64    `yaml:"trail_chance"`
	MaxTrails    int        `yaml:"max_trails"`
	TargetFPS    float64    `yaml:"target_fps"`
	Seed         uint64     `yaml:"seed"`
	Debug        bool       `yaml:"debug"`
	ContentAbove float64    `yaml:"content_above"` // spacer height above the footer
}

// AmbientConfig configures the page background.
type AmbientConfig struct {
	Counts        TierCounts `yaml:"counts"`
	TargetFPS     float64    `yaml:"target_fps"`
	PointerRadius float64    `yaml:"pointer_radius"`
	LinkDistance  float64    `yaml:"link_distance"`
	Ease          float64    `yaml:"ease"`
	Strength      float64    `yaml:"strength"`
	Seed          uint64     `yaml:"seed"`
	Debug         bool       `yaml:"debug"`
}

// ResizeConfig configures resize debouncing.
type ResizeConfig struct {
	Debounce string `yaml:"debounce"`
}

// ChatConfig configures the chat assistant.
type ChatConfig struct {
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	SystemInstruction string `yaml:"system_instruction"`
	Timeout           string `yaml:"timeout"`
}

// AnalyticsConfig configures event dispatch. An empty endpoint disables it.
type AnalyticsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	QueueSize int    `yaml:"queue_size"`
	Timeout   string `yaml:"timeout"`
}

// DefaultConfig returns a complete configuration. Simulation defaults match
// the library's DefaultArenaConfig and DefaultFieldConfig.
func DefaultConfig() *Config {
	arena := drift.DefaultArenaConfig()
	field := drift.DefaultFieldConfig()
	return &Config{
		Window: WindowConfig{
			Title:         "drift",
			Width:         1280,
			Height:        720,
			ScreenshotDir: "screenshots",
		},
		Arena: ArenaConfig{
			Height:       320,
			Counts:       tierCounts(arena.Counts),
			MinRadius:    arena.Radius.Min,
			MaxRadius:    arena.Radius.Max,
			Restitution:  arena.Restitution,
			Damping:      arena.Damping,
			TrailChance:  arena.Trail.Chance,
			MaxTrails:    arena.Trail.MaxTrails,
			TargetFPS:    60,
			ContentAbove: 900,
		},
		Ambient: AmbientConfig{
			Counts:        tierCounts(field.Counts),
			TargetFPS:     30,
			PointerRadius: field.PointerRadius,
			LinkDistance:  field.LinkDistance,
			Ease:          field.Ease,
			Strength:      field.Strength,
		},
		Resize: ResizeConfig{
			Debounce: drift.DefaultResizeDebounce.String(),
		},
		Chat: ChatConfig{
			Model:             "gemini-2.5-flash",
			SystemInstruction: "You are the assistant on a personal portfolio site. Answer briefly and politely.",
			Timeout:           "30s",
		},
		Analytics: AnalyticsConfig{
			QueueSize: 64,
			Timeout:   "5s",
		},
	}
}

func tierCounts(c drift.TierCounts) TierCounts {
	return TierCounts{Mobile: c.Mobile, Tablet: c.Tablet, Desktop: c.Desktop}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("DRIFT_GENAI_API_KEY"); key != "" {
		c.Chat.APIKey = key
	}
	if url := os.Getenv("DRIFT_ANALYTICS_ENDPOINT"); url != "" {
		c.Analytics.Endpoint = url
	}
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Arena.TargetFPS <= 0 {
		return fmt.Errorf("arena target_fps must be positive, got %v", c.Arena.TargetFPS)
	}
	if c.Ambient.TargetFPS <= 0 {
		return fmt.Errorf("ambient target_fps must be positive, got %v", c.Ambient.TargetFPS)
	}
	if c.Arena.Height <= 0 {
		return fmt.Errorf("arena height must be positive, got %v", c.Arena.Height)
	}
	if c.Arena.MinRadius <= 0 || c.Arena.MaxRadius < c.Arena.MinRadius {
		return fmt.Errorf("arena radius range invalid: [%v, %v]", c.Arena.MinRadius, c.Arena.MaxRadius)
	}
	if c.Arena.Restitution <= 0 || c.Arena.Restitution >= 1 {
		return fmt.Errorf("arena restitution must be in (0, 1), got %v", c.Arena.Restitution)
	}
	if c.Arena.Damping <= 0 || c.Arena.Damping >= 1 {
		return fmt.Errorf("arena damping must be in (0, 1), got %v", c.Arena.Damping)
	}
	d, err := time.ParseDuration(c.Resize.Debounce)
	if err != nil {
		return fmt.Errorf("resize debounce: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("resize debounce must not be negative, got %s", d)
	}
	for name, v := range map[string]string{"chat timeout": c.Chat.Timeout, "analytics timeout": c.Analytics.Timeout} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ResizeDebounce returns the resize debounce as a duration.
func (c *Config) ResizeDebounce() time.Duration {
	d, err := time.ParseDuration(c.Resize.Debounce)
	if err != nil {
		return drift.DefaultResizeDebounce
	}
	return d
}

// ChatTimeout returns the chat request timeout as a duration.
func (c *Config) ChatTimeout() time.Duration {
	d, err := time.ParseDuration(c.Chat.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AnalyticsTimeout returns the analytics request timeout as a duration.
func (c *Config) AnalyticsTimeout() time.Duration {
	d, err := time.ParseDuration(c.Analytics.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// ArenaSettings returns the library arena config with the file's overrides.
func (c *Config) ArenaSettings() drift.ArenaConfig {
	a := drift.DefaultArenaConfig()
	a.Counts = drift.TierCounts{Mobile: c.Arena.Counts.Mobile, Tablet: c.Arena.Counts.Tablet, Desktop: c.Arena.Counts.Desktop}
	a.Radius = drift.Range{Min: c.Arena.MinRadius, Max: c.Arena.MaxRadius}
	a.Restitution = c.Arena.Restitution
	a.Damping = c.Arena.Damping
	a.Trail.Chance = c.Arena.TrailChance
	a.Trail.MaxTrails = c.Arena.MaxTrails
	a.Seed = c.Arena.Seed
	return a
}

// FieldSettings returns the library field config with the file's overrides.
func (c *Config) FieldSettings() drift.FieldConfig {
	f := drift.DefaultFieldConfig()
	f.Counts = drift.TierCounts{Mobile: c.Ambient.Counts.Mobile, Tablet: c.Ambient.Counts.Tablet, Desktop: c.Ambient.Counts.Desktop}
	f.PointerRadius = c.Ambient.PointerRadius
	f.LinkDistance = c.Ambient.LinkDistance
	f.Ease = c.Ambient.Ease
	f.Strength = c.Ambient.Strength
	f.Seed = c.Ambient.Seed
	return f
}
