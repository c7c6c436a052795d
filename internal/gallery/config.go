package gallery

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
	"github.com/zeusync/weaponsim/internal/server"
)

// Config describes a shooting gallery session: the scene, the weapon and a
// scripted sequence of player actions.
type Config struct {
	LogLevel log.Level `yaml:"log_level" json:"log_level"`
	TickRate int       `yaml:"tick_rate" json:"tick_rate"`
	// Duration stops the session after this much simulated time. Zero runs
	// until the context is cancelled.
	Duration time.Duration `yaml:"duration" json:"duration"`

	Catalog     string `yaml:"catalog" json:"catalog"`
	Weapon      string `yaml:"weapon" json:"weapon"`
	EffectLimit int    `yaml:"effect_limit" json:"effect_limit"`

	Camera  CameraConfig   `yaml:"camera" json:"camera"`
	Targets []TargetConfig `yaml:"targets" json:"targets"`
	Pickups []PickupConfig `yaml:"pickups" json:"pickups"`
	Script  []Step         `yaml:"script" json:"script"`

	Feed        server.Config `yaml:"feed" json:"feed"`
	FeedEnabled bool          `yaml:"feed_enabled" json:"feed_enabled"`
}

type CameraConfig struct {
	Position physics.Vec3 `yaml:"position" json:"position"`
	Yaw      float64      `yaml:"yaw" json:"yaw"`
	Pitch    float64      `yaml:"pitch" json:"pitch"`
}

// TargetConfig is a box in the scene. Boxes with positive health can be
// destroyed.
type TargetConfig struct {
	Name     string       `yaml:"name" json:"name"`
	Min      physics.Vec3 `yaml:"min" json:"min"`
	Max      physics.Vec3 `yaml:"max" json:"max"`
	Category uint         `yaml:"category" json:"category"`
	Health   float64      `yaml:"health" json:"health"`
}

type PickupConfig struct {
	Name   string       `yaml:"name" json:"name"`
	Icon   string       `yaml:"icon" json:"icon"`
	Center physics.Vec3 `yaml:"center" json:"center"`
	Radius float64      `yaml:"radius" json:"radius"`
}

// DefaultConfig returns a session with one target and no script.
func DefaultConfig() Config {
	return Config{
		LogLevel:    log.LevelInfo,
		TickRate:    60,
		Weapon:      "pistol",
		EffectLimit: 64,
		Camera:      CameraConfig{Position: physics.Vec3{Y: 1.7}},
		Targets: []TargetConfig{
			{Name: "dummy", Min: physics.Vec3{X: -0.5, Z: 10}, Max: physics.Vec3{X: 0.5, Y: 2, Z: 10.5}, Category: 1, Health: 100},
		},
		Feed: server.DefaultServerConfig(),
	}
}

// Step returns the fixed simulation step.
func (c *Config) Step() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.TickRate <= 0 || c.TickRate > 1000 {
		add("tick_rate must be in (0, 1000]")
	}
	if c.Duration < 0 {
		add("duration must not be negative")
	}
	if strings.TrimSpace(c.Weapon) == "" {
		add("weapon is required")
	}
	if c.EffectLimit < 0 {
		add("effect_limit must not be negative")
	}
	for i, t := range c.Targets {
		if t.Category >= 32 {
			add("targets[%d]: category %d out of range", i, t.Category)
		}
		if t.Health < 0 {
			add("targets[%d]: health must not be negative", i)
		}
	}
	for i, p := range c.Pickups {
		if p.Radius <= 0 {
			add("pickups[%d]: radius must be positive", i)
		}
	}
	for i, s := range c.Script {
		if !s.Action.valid() {
			add("script[%d]: unknown action %q", i, s.Action)
		}
		if s.At < 0 {
			add("script[%d]: at must not be negative", i)
		}
	}
	if c.FeedEnabled {
		if err := c.Feed.Validate(); err != nil {
			add("feed: %v", err)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LoadYAML decodes a config over the defaults and validates it.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadJSON decodes a config over the defaults and validates it.
func LoadJSON(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile picks the decoder from the file extension. A relative catalog
// path is resolved against the config file's directory.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		cfg, err = LoadJSON(f)
	} else {
		cfg, err = LoadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	return cfg, nil
}
