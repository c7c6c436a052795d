// Package gallery assembles a shooting gallery session: a scene, one weapon,
// the HUD and a scripted player, stepped by a fixed-rate driver.
package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/core/systems"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
	"github.com/zeusync/weaponsim/internal/core/weapon"
	"github.com/zeusync/weaponsim/internal/core/world"
	"github.com/zeusync/weaponsim/internal/hud"
	"github.com/zeusync/weaponsim/pkg/sequence"
)

// Gallery owns every participant of one session. It is stepped from a single
// goroutine.
type Gallery struct {
	config *Config
	logger log.Log

	relay   *relay.Relay
	world   *world.World
	effects *world.Effects
	pickups *world.PickupSensor
	camera  *world.Camera
	weapon  *weapon.Simulator
	hud     *hud.HUD
	driver  *systems.Driver

	script   *sequence.Timeline[Step]
	held     bool
	equipped bool
	shots    int
}

// Summary is reported when a session ends.
type Summary struct {
	Frames   int64
	Elapsed  time.Duration
	Shots    int
	Ammo     int
	Phase    weapon.Phase
	Hits     int
	Kills    int
	Effects  int
	HUDState hud.State
}

// New builds the scene described by config around the named catalog weapon.
func New(config *Config, catalog *weapon.Catalog, r *relay.Relay, logger log.Log) (*Gallery, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	profile, ok := catalog.Get(config.Weapon)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownWeapon, config.Weapon, catalog.Names())
	}
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With(log.String("component", "gallery"))

	g := &Gallery{
		config:  config,
		logger:  logger,
		relay:   r,
		world:   world.New(logger),
		effects: world.NewEffects(config.EffectLimit),
		camera: &world.Camera{
			Position: config.Camera.Position,
			Yaw:      config.Camera.Yaw,
			Pitch:    config.Camera.Pitch,
		},
		hud:    hud.New(r, logger),
		driver: systems.NewDriver(config.Step()),
		script: newScript(config.Script),
	}

	for _, t := range config.Targets {
		if t.Health > 0 {
			g.world.AddTarget(t.Name, t.Min, t.Max, physics.Category(t.Category), t.Health)
		} else {
			g.world.AddBox(t.Name, t.Min, t.Max, physics.Category(t.Category))
		}
	}
	g.pickups = world.NewPickupSensor(r)
	for _, p := range config.Pickups {
		g.pickups.Add(world.Pickup{Name: p.Name, Icon: p.Icon, Center: p.Center, Radius: p.Radius})
	}

	// HUD listens before the simulator announces its initial ammo.
	g.hud.Enable()

	sim, err := weapon.New(profile, weapon.Dependencies{
		World:    g.world,
		Cues:     weapon.CueFunc(g.onCue),
		Notifier: r,
		Effects:  g.effects,
		View:     g.camera,
	}, weapon.WithLogger(logger), weapon.WithMuzzle(muzzleLog{logger: logger}))
	if err != nil {
		g.hud.Disable()
		return nil, err
	}
	g.weapon = sim

	g.driver.BeforeTick(g.beforeTick)
	g.driver.Add(systems.Ticked(g.effects.Tick))
	g.driver.Add(systems.Ticked(g.hud.Tick))
	return g, nil
}

// Run steps the session in real time until ctx is done or the configured
// duration has been simulated.
func (g *Gallery) Run(ctx context.Context) (Summary, error) {
	ticker := time.NewTicker(g.driver.StepSize())
	defer ticker.Stop()

	g.logger.Info("Gallery started",
		log.String("weapon", g.weapon.Profile().Name()),
		log.Duration("step", g.driver.StepSize()),
		log.Duration("duration", g.config.Duration))

	last := time.Now()
	for !g.finished() {
		select {
		case <-ctx.Done():
			return g.Close(), nil
		case now := <-ticker.C:
			g.driver.Advance(now.Sub(last))
			last = now
		}
	}
	return g.Close(), nil
}

// RunFor simulates d without waiting on the wall clock.
func (g *Gallery) RunFor(d time.Duration) {
	g.driver.Advance(d)
}

// Close unequips the weapon, detaches the HUD and reports the session.
func (g *Gallery) Close() Summary {
	if g.equipped {
		g.driver.Remove(g.weapon)
		g.equipped = false
	}
	g.hud.Disable()

	s := g.Summary()
	g.logger.Info("Gallery finished",
		log.Int64("frames", s.Frames),
		log.Int("shots", s.Shots),
		log.Int("hits", s.Hits),
		log.Int("kills", s.Kills),
		log.Int("ammo", s.Ammo))
	return s
}

func (g *Gallery) Summary() Summary {
	state := g.hud.State()
	return Summary{
		Frames:   g.driver.Frame(),
		Elapsed:  g.elapsed(),
		Shots:    g.shots,
		Ammo:     g.weapon.Ammo(),
		Phase:    g.weapon.Phase(),
		Hits:     state.Hits,
		Kills:    state.Kills,
		Effects:  len(g.effects.Active()),
		HUDState: state,
	}
}

func (g *Gallery) Weapon() *weapon.Simulator { return g.weapon }
func (g *Gallery) World() *world.World       { return g.world }
func (g *Gallery) HUD() *hud.HUD             { return g.hud }
func (g *Gallery) Effects() *world.Effects   { return g.effects }

func (g *Gallery) elapsed() time.Duration {
	return time.Duration(g.driver.Frame()) * g.driver.StepSize()
}

func (g *Gallery) finished() bool {
	return g.config.Duration > 0 && g.elapsed() >= g.config.Duration
}

func (g *Gallery) beforeTick(frame int64, _ float64) {
	now := time.Duration(frame) * g.driver.StepSize()
	for _, s := range g.script.Due(now) {
		g.apply(s)
	}

	g.pickups.Sense(g.camera.Position)
	if g.equipped && g.weapon.OnFireIntent(g.held) {
		g.shots++
	}
}

func (g *Gallery) apply(s Step) {
	g.logger.Debug("Script step", log.String("action", string(s.Action)), log.Float64("at", s.At))

	switch s.Action {
	case ActionEquip:
		if g.equipped {
			g.weapon.OnEquip()
			return
		}
		g.driver.Add(g.weapon)
		g.equipped = true
	case ActionUnequip:
		if g.equipped {
			g.driver.Remove(g.weapon)
			g.equipped = false
		}
	case ActionPress:
		g.held = true
	case ActionRelease:
		g.held = false
	case ActionReload:
		if g.equipped {
			g.weapon.OnReloadIntent()
		}
	case ActionHide:
		if g.equipped {
			g.weapon.OnHideIntent()
		}
	case ActionMove:
		g.camera.Position = s.Position
	case ActionLook:
		g.camera.LookAt(s.Target)
	case ActionSetAmmo:
		g.weapon.SetAmmo(s.Count)
	}
}

func (g *Gallery) onCue(c weapon.Cue) {
	g.logger.Info("Animation cue", log.String("cue", string(c)))
}

type muzzleLog struct {
	logger log.Log
}

func (m muzzleLog) OnShot(origin, direction physics.Vec3) {
	m.logger.Debug("Muzzle flash",
		log.Any("origin", origin),
		log.Any("direction", direction))
}
