package weapon

import (
	"fmt"
	"math"
	"time"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/core/systems"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

const (
	// ReadyLeadTime is taken off draw and reload deadlines so the weapon
	// becomes usable on the last frame of the draw/reload animation.
	ReadyLeadTime = 150 * time.Millisecond
	// HitEffectOffset lifts bullet holes off the hit surface along its normal.
	HitEffectOffset = 0.001
	// HitEffectLifetime is how long a bullet hole stays before it is discarded.
	HitEffectLifetime = 4 * time.Second
)

var _ systems.Lifecycle = (*Simulator)(nil)

// Dependencies are the collaborators a Simulator cannot work without.
type Dependencies struct {
	World    World
	Cues     CueSink
	Notifier relay.Publisher
	Effects  EffectSink
	View     Viewpoint
}

func (d Dependencies) validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingCollaborator, name)
	}
	switch {
	case d.World == nil:
		return missing("world")
	case d.Cues == nil:
		return missing("cue sink")
	case d.Notifier == nil:
		return missing("notifier")
	case d.Effects == nil:
		return missing("effect sink")
	case d.View == nil:
		return missing("viewpoint")
	}
	return nil
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithOwner sets the entity holding the weapon; its own hits are ignored.
func WithOwner(id physics.EntityID) Option {
	return func(s *Simulator) { s.owner = id }
}

// WithLogger sets the logger phase changes are reported to.
func WithLogger(l log.Log) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMuzzle installs the muzzle flash / trace extension.
func WithMuzzle(m MuzzleCue) Option {
	return func(s *Simulator) { s.muzzle = m }
}

// Simulator runs the firing lifecycle of one equipped weapon: draw, fire,
// reload and hide, with hit-scan resolution and recoil. It is driven by
// per-frame intents and Tick, and is not safe for concurrent use.
type Simulator struct {
	profile *Profile
	deps    Dependencies
	owner   physics.EntityID
	muzzle  MuzzleCue
	logger  log.Log

	state        RuntimeState
	now          time.Duration
	pose         physics.Transform
	equipped     bool
	triggerState bool
}

// New creates a holstered simulator with a full magazine and announces the
// ammo count.
func New(profile *Profile, deps Dependencies, opts ...Option) (*Simulator, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile", ErrMissingCollaborator)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		profile: profile,
		deps:    deps,
		logger:  log.Nop(),
		state: RuntimeState{
			CurrentAmmo: profile.MaxAmmo(),
			Phase:       PhaseHidden,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("weapon", profile.Name()))

	s.publishAmmo()
	return s, nil
}

// OnEquip starts drawing the weapon. Any draw or reload in progress is
// abandoned; ammo is left as is.
func (s *Simulator) OnEquip() {
	s.equipped = true
	s.enterTimed(PhaseDrawing, s.profile.DrawTime())
	s.deps.Notifier.Publish(relay.WeaponEquipped{Name: s.profile.Name()})
	s.publishAmmo()
}

// OnUnequip detaches the weapon. Pending timers are dropped and further
// intents are ignored until the next OnEquip.
func (s *Simulator) OnUnequip() {
	s.equipped = false
	s.transition(PhaseHidden)
	s.clearDeadline()
}

// OnHideIntent puts the weapon away and plays the hide animation.
func (s *Simulator) OnHideIntent() {
	s.transition(PhaseHidden)
	s.clearDeadline()
	s.deps.Cues.Trigger(CueHiding)
}

// OnFireIntent feeds the trigger state for the current tick and reports
// whether a shot was fired. Manual weapons fire on the press only, automatic
// weapons on every held tick; both respect the fire interval and ammo.
func (s *Simulator) OnFireIntent(held bool) bool {
	pressed := held && !s.triggerState
	s.triggerState = held
	s.advance()

	if s.state.Phase != PhaseReady {
		return false
	}
	wants := held
	if s.profile.ShotMode() == ShotManual {
		wants = pressed
	}
	if !wants || !s.canShoot() {
		return false
	}
	s.shoot()
	return true
}

// OnReloadIntent starts a reload when the weapon is ready and the magazine
// is not full. It reports whether a reload started.
func (s *Simulator) OnReloadIntent() bool {
	s.advance()
	if s.state.Phase != PhaseReady || s.state.CurrentAmmo >= s.profile.MaxAmmo() {
		return false
	}
	s.enterTimed(PhaseReloading, s.profile.ReloadTime())
	s.deps.Cues.Trigger(CueReloading)
	return true
}

// Tick advances the simulation clock by deltaTime seconds, completes timed
// phases and settles recoil.
func (s *Simulator) Tick(deltaTime float64) {
	if deltaTime > 0 && !math.IsInf(deltaTime, 0) {
		s.now += secondsToDuration(deltaTime)
	}
	s.advance()
	settle(&s.pose, deltaTime)
}

// SetAmmo overrides the magazine, clamped to [0, MaxAmmo], and announces it.
func (s *Simulator) SetAmmo(n int) {
	s.state.CurrentAmmo = min(max(n, 0), s.profile.MaxAmmo())
	s.publishAmmo()
}

func (s *Simulator) Profile() *Profile  { return s.profile }
func (s *Simulator) Ammo() int          { return s.state.CurrentAmmo }
func (s *Simulator) Phase() Phase       { return s.state.Phase }
func (s *Simulator) Now() time.Duration { return s.now }

// Snapshot returns a copy of the runtime state.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		RuntimeState: s.state,
		Now:          s.now,
		Pose:         s.pose,
		Equipped:     s.equipped,
	}
}

func (s *Simulator) canShoot() bool {
	if s.state.HasShot && s.now-s.state.LastShot < s.profile.FireInterval() {
		return false
	}
	return s.state.CurrentAmmo >= 1
}

func (s *Simulator) shoot() {
	s.state.CurrentAmmo--
	s.publishAmmo()
	s.state.LastShot = s.now
	s.state.HasShot = true

	applyKick(&s.pose, RecoilKick(s.profile.RecoilAxis(), s.profile.RecoilForce(), s.profile.RecoilSign()))

	ray := physics.Ray{Origin: s.deps.View.Origin(), Direction: s.deps.View.Forward()}
	if hit, ok := s.deps.World.Raycast(ray, s.profile.FireRange(), s.profile.Hittable()); ok && hit.Hit && hit.TargetID != s.owner {
		s.onHit(hit)
	}

	if s.muzzle != nil {
		s.muzzle.OnShot(ray.Origin, ray.Direction)
	}
}

func (s *Simulator) onHit(hit physics.HitResult) {
	position := hit.Point.Add(hit.Normal.Scale(HitEffectOffset))
	s.deps.Effects.SpawnTransientEffect(position, hit.Normal, HitEffectLifetime)

	if s.profile.Damage() <= 0 {
		return
	}
	target, ok := s.deps.World.(Damageable)
	if !ok {
		return
	}
	if lethal, applied := target.ApplyDamage(hit.TargetID, s.profile.Damage()); applied {
		s.deps.Notifier.Publish(relay.DamageDealt{WasLethal: lethal})
	}
}

// advance completes the current timed phase once its deadline has passed.
func (s *Simulator) advance() {
	if !s.state.Phase.timed() || !s.state.HasDeadline || s.now < s.state.Deadline {
		return
	}
	if s.state.Phase == PhaseReloading {
		s.state.CurrentAmmo = s.profile.MaxAmmo()
		s.publishAmmo()
	}
	s.clearDeadline()
	s.transition(PhaseReady)
}

func (s *Simulator) enterTimed(phase Phase, length time.Duration) {
	s.state.Deadline = s.now + length - ReadyLeadTime
	s.state.HasDeadline = true
	s.transition(phase)
}

func (s *Simulator) clearDeadline() {
	s.state.Deadline = 0
	s.state.HasDeadline = false
}

func (s *Simulator) transition(to Phase) {
	from := s.state.Phase
	s.state.Phase = to
	s.logger.Debug("weapon phase changed",
		log.String("from", from.String()),
		log.String("to", to.String()),
		log.Duration("now", s.now),
		log.Int("ammo", s.state.CurrentAmmo),
	)
}

func (s *Simulator) publishAmmo() {
	s.deps.Notifier.Publish(relay.AmmoChanged{Current: s.state.CurrentAmmo, Max: s.profile.MaxAmmo()})
}
