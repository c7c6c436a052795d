package weapon

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
	"gopkg.in/yaml.v3"
)

// ShotMode selects how the trigger turns into fire intents.
type ShotMode uint8

const (
	// ShotManual fires once per trigger press.
	ShotManual ShotMode = iota
	// ShotAutomatic fires every tick the trigger is held.
	ShotAutomatic
)

func (m ShotMode) String() string {
	switch m {
	case ShotManual:
		return "manual"
	case ShotAutomatic:
		return "automatic"
	default:
		return fmt.Sprintf("ShotMode(%d)", uint8(m))
	}
}

func (m ShotMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ShotMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "manual", "":
		*m = ShotManual
	case "automatic", "auto":
		*m = ShotAutomatic
	default:
		return fmt.Errorf("%w: unknown shot mode %q", ErrInvalidProfile, text)
	}
	return nil
}

// RecoilAxis is the weapon-local axis the view-model is pushed along when firing.
type RecoilAxis uint8

const (
	RecoilForward RecoilAxis = iota
	RecoilRight
)

func (a RecoilAxis) String() string {
	switch a {
	case RecoilForward:
		return "forward"
	case RecoilRight:
		return "right"
	default:
		return fmt.Sprintf("RecoilAxis(%d)", uint8(a))
	}
}

// Vector returns the unit vector of the axis in weapon-local space.
func (a RecoilAxis) Vector() physics.Vec3 {
	if a == RecoilRight {
		return physics.Right
	}
	return physics.Forward
}

func (a RecoilAxis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *RecoilAxis) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "forward", "":
		*a = RecoilForward
	case "right":
		*a = RecoilRight
	default:
		return fmt.Errorf("%w: unknown recoil axis %q", ErrInvalidProfile, text)
	}
	return nil
}

// ProfileConfig is the file form of a weapon definition. Times are in seconds.
type ProfileConfig struct {
	Name                string     `json:"name" yaml:"name"`
	FireRange           float64    `json:"fire_range" yaml:"fire_range"`
	RecoilForce         float64    `json:"recoil_force" yaml:"recoil_force"`
	RecoilAxis          RecoilAxis `json:"recoil_axis" yaml:"recoil_axis"`
	RecoilSign          float64    `json:"recoil_sign,omitempty" yaml:"recoil_sign,omitempty"`
	FireIntervalSeconds float64    `json:"fire_interval_seconds" yaml:"fire_interval_seconds"`
	MaxAmmo             int        `json:"max_ammo" yaml:"max_ammo"`
	DrawTimeSeconds     float64    `json:"draw_time_seconds" yaml:"draw_time_seconds"`
	ReloadTimeSeconds   float64    `json:"reload_time_seconds" yaml:"reload_time_seconds"`
	ShotMode            ShotMode   `json:"shot_mode" yaml:"shot_mode"`
	HittableCategories  []uint     `json:"hittable_categories,omitempty" yaml:"hittable_categories,omitempty"`
	Damage              float64    `json:"damage,omitempty" yaml:"damage,omitempty"`
}

// DefaultProfileConfig returns a semi-automatic pistol.
func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		Name:                "pistol",
		FireRange:           200,
		RecoilForce:         4,
		RecoilAxis:          RecoilForward,
		RecoilSign:          1,
		FireIntervalSeconds: 0.6,
		MaxAmmo:             8,
		DrawTimeSeconds:     1.5,
		ReloadTimeSeconds:   1.5,
		ShotMode:            ShotManual,
	}
}

// Validate reports every problem with the configuration at once.
func (c ProfileConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !(c.FireRange > 0) || math.IsInf(c.FireRange, 0) {
		problems = append(problems, fmt.Sprintf("fire_range must be positive and finite, got %v", c.FireRange))
	}
	if math.IsNaN(c.RecoilForce) || math.IsInf(c.RecoilForce, 0) {
		problems = append(problems, "recoil_force must be finite")
	}
	if c.RecoilSign != 0 && c.RecoilSign != 1 && c.RecoilSign != -1 {
		problems = append(problems, fmt.Sprintf("recoil_sign must be 1 or -1, got %v", c.RecoilSign))
	}
	if c.MaxAmmo < 0 {
		problems = append(problems, fmt.Sprintf("max_ammo must not be negative, got %d", c.MaxAmmo))
	}
	for name, v := range map[string]float64{
		"fire_interval_seconds": c.FireIntervalSeconds,
		"draw_time_seconds":     c.DrawTimeSeconds,
		"reload_time_seconds":   c.ReloadTimeSeconds,
	} {
		if !(v >= 0) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %v", name, v))
		}
	}
	if c.ShotMode > ShotAutomatic {
		problems = append(problems, fmt.Sprintf("unknown shot mode %d", c.ShotMode))
	}
	if c.RecoilAxis > RecoilRight {
		problems = append(problems, fmt.Sprintf("unknown recoil axis %d", c.RecoilAxis))
	}
	for _, cat := range c.HittableCategories {
		if cat >= 32 {
			problems = append(problems, fmt.Sprintf("hittable category %d out of range [0, 32)", cat))
		}
	}
	if !(c.Damage >= 0) || math.IsInf(c.Damage, 0) {
		problems = append(problems, fmt.Sprintf("damage must not be negative, got %v", c.Damage))
	}

	if len(problems) == 0 {
		return nil
	}
	// map iteration above is unordered
	slices.Sort(problems)
	return fmt.Errorf("%w %q: %s", ErrInvalidProfile, c.Name, strings.Join(problems, "; "))
}

// Profile is an immutable, validated weapon definition.
type Profile struct {
	config       ProfileConfig
	fireInterval time.Duration
	drawTime     time.Duration
	reloadTime   time.Duration
	recoilSign   float64
	hittable     physics.CategoryMask
	fingerprint  uint64
}

// NewProfile validates c and freezes it into a Profile. A zero RecoilSign
// means 1; no hittable categories means every category.
func NewProfile(c ProfileConfig) (*Profile, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := &Profile{
		config:       c,
		fireInterval: secondsToDuration(c.FireIntervalSeconds),
		drawTime:     secondsToDuration(c.DrawTimeSeconds),
		reloadTime:   secondsToDuration(c.ReloadTimeSeconds),
		recoilSign:   c.RecoilSign,
		hittable:     physics.CategoryAll,
	}
	if p.recoilSign == 0 {
		p.recoilSign = 1
		p.config.RecoilSign = 1
	}
	if len(c.HittableCategories) > 0 {
		p.hittable = physics.CategoryNone
		for _, cat := range c.HittableCategories {
			p.hittable |= physics.Category(cat)
		}
	}
	p.config.HittableCategories = append([]uint(nil), c.HittableCategories...)

	raw, err := yaml.Marshal(p.config)
	if err != nil {
		return nil, fmt.Errorf("fingerprint profile %q: %w", c.Name, err)
	}
	p.fingerprint = xxhash.Sum64(raw)

	return p, nil
}

// MustProfile is NewProfile for static definitions; it panics on error.
func MustProfile(c ProfileConfig) *Profile {
	p, err := NewProfile(c)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Profile) Name() string                   { return p.config.Name }
func (p *Profile) FireRange() float64             { return p.config.FireRange }
func (p *Profile) RecoilForce() float64           { return p.config.RecoilForce }
func (p *Profile) RecoilAxis() RecoilAxis         { return p.config.RecoilAxis }
func (p *Profile) RecoilSign() float64            { return p.recoilSign }
func (p *Profile) FireInterval() time.Duration    { return p.fireInterval }
func (p *Profile) MaxAmmo() int                   { return p.config.MaxAmmo }
func (p *Profile) DrawTime() time.Duration        { return p.drawTime }
func (p *Profile) ReloadTime() time.Duration      { return p.reloadTime }
func (p *Profile) ShotMode() ShotMode             { return p.config.ShotMode }
func (p *Profile) Hittable() physics.CategoryMask { return p.hittable }
func (p *Profile) Damage() float64                { return p.config.Damage }
func (p *Profile) Config() ProfileConfig {
	c := p.config
	c.HittableCategories = slices.Clone(c.HittableCategories)
	return c
}

// Fingerprint is a hash of the full definition. Two profiles with the same
// fingerprint behave identically.
func (p *Profile) Fingerprint() uint64 { return p.fingerprint }

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
