package weapon_test

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
	"github.com/zeusync/weaponsim/internal/core/weapon"
	"github.com/zeusync/weaponsim/internal/core/weapon/mocks"
)

type camera struct {
	origin  physics.Vec3
	forward physics.Vec3
}

func (c camera) Origin() physics.Vec3  { return c.origin }
func (c camera) Forward() physics.Vec3 { return c.forward }

var eyeLevel = camera{origin: physics.Vec3{Y: 1.7}, forward: physics.Forward}

type harness struct {
	t       *testing.T
	sim     *weapon.Simulator
	relay   *relay.Relay
	world   *mocks.MockWorld
	cues    *mocks.MockCueSink
	effects *mocks.MockEffectSink
	ammo    []relay.AmmoChanged
}

func newHarness(t *testing.T, cfg weapon.ProfileConfig, opts ...weapon.Option) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		t:       t,
		relay:   relay.New(),
		world:   mocks.NewMockWorld(ctrl),
		cues:    mocks.NewMockCueSink(ctrl),
		effects: mocks.NewMockEffectSink(ctrl),
	}
	relay.On(h.relay, func(n relay.AmmoChanged) { h.ammo = append(h.ammo, n) })

	profile, err := weapon.NewProfile(cfg)
	require.NoError(t, err)
	h.sim, err = weapon.New(profile, weapon.Dependencies{
		World:    h.world,
		Cues:     h.cues,
		Notifier: h.relay,
		Effects:  h.effects,
		View:     eyeLevel,
	}, opts...)
	require.NoError(t, err)
	return h
}

func (h *harness) alwaysMiss() *harness {
	h.world.EXPECT().Raycast(gomock.Any(), gomock.Any(), gomock.Any()).Return(physics.HitResult{}, false).AnyTimes()
	return h
}

// run ticks n frames of dt seconds, checking the ammo invariant after each.
func (h *harness) run(n int, dt float64) {
	h.t.Helper()
	for range n {
		h.sim.Tick(dt)
		h.requireAmmoInRange()
	}
}

func (h *harness) requireAmmoInRange() {
	h.t.Helper()
	ammo := h.sim.Ammo()
	require.GreaterOrEqual(h.t, ammo, 0)
	require.LessOrEqual(h.t, ammo, h.sim.Profile().MaxAmmo())
}

func (h *harness) lastAmmo() relay.AmmoChanged {
	h.t.Helper()
	require.NotEmpty(h.t, h.ammo)
	return h.ammo[len(h.ammo)-1]
}

// ready equips and waits out the draw in 50ms frames.
func (h *harness) ready() {
	h.t.Helper()
	h.sim.OnEquip()
	for h.sim.Phase() != weapon.PhaseReady {
		require.Less(h.t, h.sim.Now(), time.Minute)
		h.sim.Tick(0.05)
	}
}

func automatic(cfg weapon.ProfileConfig) weapon.ProfileConfig {
	cfg.ShotMode = weapon.ShotAutomatic
	return cfg
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	profile := weapon.MustProfile(weapon.DefaultProfileConfig())
	full := weapon.Dependencies{
		World:    mocks.NewMockWorld(ctrl),
		Cues:     mocks.NewMockCueSink(ctrl),
		Notifier: relay.New(),
		Effects:  mocks.NewMockEffectSink(ctrl),
		View:     eyeLevel,
	}

	cases := map[string]func(d *weapon.Dependencies){
		"world":    func(d *weapon.Dependencies) { d.World = nil },
		"cues":     func(d *weapon.Dependencies) { d.Cues = nil },
		"notifier": func(d *weapon.Dependencies) { d.Notifier = nil },
		"effects":  func(d *weapon.Dependencies) { d.Effects = nil },
		"view":     func(d *weapon.Dependencies) { d.View = nil },
	}
	for name, drop := range cases {
		t.Run(name, func(t *testing.T) {
			deps := full
			drop(&deps)
			sim, err := weapon.New(profile, deps)
			require.ErrorIs(t, err, weapon.ErrMissingCollaborator)
			require.Nil(t, sim)
		})
	}

	_, err := weapon.New(nil, full)
	require.ErrorIs(t, err, weapon.ErrMissingCollaborator)
}

func TestNewStartsHolsteredWithFullMagazine(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig())

	require.Equal(t, weapon.PhaseHidden, h.sim.Phase())
	require.Equal(t, []relay.AmmoChanged{{Current: 8, Max: 8}}, h.ammo)
	require.False(t, h.sim.OnFireIntent(true))
	require.False(t, h.sim.Snapshot().Equipped)
}

func TestEquipAnnouncesWeapon(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig())
	var equipped []relay.WeaponEquipped
	relay.On(h.relay, func(n relay.WeaponEquipped) { equipped = append(equipped, n) })

	h.sim.OnEquip()

	require.Equal(t, []relay.WeaponEquipped{{Name: "pistol"}}, equipped)
	require.Equal(t, weapon.PhaseDrawing, h.sim.Phase())
	snap := h.sim.Snapshot()
	require.True(t, snap.Equipped)
	require.True(t, snap.HasDeadline)
	require.Equal(t, 1350*time.Millisecond, snap.Deadline)
}

func TestDrawRejectsFireUntilLeadTime(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()
	h.sim.OnEquip()

	h.run(26, 0.05)
	require.Equal(t, 1300*time.Millisecond, h.sim.Now())
	require.False(t, h.sim.OnFireIntent(true))
	require.Equal(t, weapon.PhaseDrawing, h.sim.Phase())
	require.Equal(t, 8, h.sim.Ammo())

	h.run(1, 0.05)
	require.Equal(t, weapon.PhaseReady, h.sim.Phase())
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, 7, h.sim.Ammo())
}

func TestFireIntervalGatesAutomaticFire(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()
	h.ready()

	shots := 0
	if h.sim.OnFireIntent(true) {
		shots++
	}
	h.run(1, 0.3)
	if h.sim.OnFireIntent(true) {
		shots++
	}

	require.Equal(t, 1, shots)
	require.Equal(t, 7, h.sim.Ammo())

	h.run(1, 0.3)
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, 6, h.sim.Ammo())
}

func TestAutomaticFiresEveryHeldTick(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.FireIntervalSeconds = 0.1
	h := newHarness(t, cfg).alwaysMiss()
	h.ready()

	shots := 0
	for range 5 {
		if h.sim.OnFireIntent(true) {
			shots++
		}
		h.run(1, 0.1)
	}
	require.Equal(t, 5, shots)
	require.Equal(t, 3, h.sim.Ammo())
}

func TestManualFiresOncePerPress(t *testing.T) {
	cfg := weapon.DefaultProfileConfig()
	cfg.FireIntervalSeconds = 0
	h := newHarness(t, cfg).alwaysMiss()
	h.ready()

	shots := 0
	for range 10 {
		if h.sim.OnFireIntent(true) {
			shots++
		}
		h.run(1, 0.016)
	}
	require.Equal(t, 1, shots)

	require.False(t, h.sim.OnFireIntent(false))
	h.run(1, 0.016)
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, 6, h.sim.Ammo())
}

func TestManualPressDuringDrawDoesNotFireLater(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig()).alwaysMiss()
	h.sim.OnEquip()

	require.False(t, h.sim.OnFireIntent(true))
	for h.sim.Phase() != weapon.PhaseReady {
		h.sim.Tick(0.05)
		require.False(t, h.sim.OnFireIntent(true))
	}
	require.False(t, h.sim.OnFireIntent(true))
	require.Equal(t, 8, h.sim.Ammo())
}

func TestEmptyMagazineNeverFires(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.MaxAmmo = 1
	cfg.FireIntervalSeconds = 0
	h := newHarness(t, cfg).alwaysMiss()
	h.ready()

	require.True(t, h.sim.OnFireIntent(true))
	before := h.sim.Snapshot()
	notified := len(h.ammo)

	for range 5 {
		h.run(1, 0.5)
		require.False(t, h.sim.OnFireIntent(true))
	}

	after := h.sim.Snapshot()
	require.Equal(t, 0, after.CurrentAmmo)
	require.Equal(t, before.LastShot, after.LastShot)
	require.Len(t, h.ammo, notified)
}

func TestZeroCapacityWeapon(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.MaxAmmo = 0
	h := newHarness(t, cfg)
	h.ready()

	require.False(t, h.sim.OnFireIntent(true))
	require.False(t, h.sim.OnReloadIntent())
	require.False(t, h.sim.Snapshot().HasShot)
}

func TestReloadCompletesAtLeadTime(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	h := newHarness(t, cfg).alwaysMiss()
	h.ready()
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, relay.AmmoChanged{Current: 7, Max: 8}, h.lastAmmo())

	h.cues.EXPECT().Trigger(weapon.CueReloading).Times(1)
	require.True(t, h.sim.OnReloadIntent())
	require.Equal(t, weapon.PhaseReloading, h.sim.Phase())
	started := h.sim.Now()

	h.run(26, 0.05)
	require.Equal(t, started+1300*time.Millisecond, h.sim.Now())
	require.Equal(t, weapon.PhaseReloading, h.sim.Phase())
	require.Equal(t, 7, h.sim.Ammo())
	require.False(t, h.sim.OnFireIntent(true))

	h.run(1, 0.05)
	require.Equal(t, weapon.PhaseReady, h.sim.Phase())
	require.Equal(t, 8, h.sim.Ammo())
	require.Equal(t, relay.AmmoChanged{Current: 8, Max: 8}, h.lastAmmo())
}

func TestReloadNoops(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()

	h.sim.OnEquip()
	require.False(t, h.sim.OnReloadIntent(), "drawing")

	for h.sim.Phase() != weapon.PhaseReady {
		h.sim.Tick(0.05)
	}
	require.False(t, h.sim.OnReloadIntent(), "full magazine")

	require.True(t, h.sim.OnFireIntent(true))
	h.cues.EXPECT().Trigger(weapon.CueReloading).Times(1)
	require.True(t, h.sim.OnReloadIntent())
	deadline := h.sim.Snapshot().Deadline

	h.run(2, 0.1)
	require.False(t, h.sim.OnReloadIntent(), "already reloading")
	require.Equal(t, deadline, h.sim.Snapshot().Deadline)
}

func TestEquipAbandonsReload(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()
	h.ready()
	require.True(t, h.sim.OnFireIntent(true))

	h.cues.EXPECT().Trigger(weapon.CueReloading)
	require.True(t, h.sim.OnReloadIntent())
	h.run(10, 0.05)

	h.sim.OnEquip()
	require.Equal(t, weapon.PhaseDrawing, h.sim.Phase())
	require.Equal(t, h.sim.Now()+1350*time.Millisecond, h.sim.Snapshot().Deadline)

	h.run(30, 0.05)
	require.Equal(t, weapon.PhaseReady, h.sim.Phase())
	require.Equal(t, 7, h.sim.Ammo())
}

func TestHideFromAnyPhase(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()
	h.cues.EXPECT().Trigger(weapon.CueHiding).Times(3)
	h.cues.EXPECT().Trigger(weapon.CueReloading).Times(1)

	h.sim.OnEquip()
	h.sim.OnHideIntent()
	require.Equal(t, weapon.PhaseHidden, h.sim.Phase())
	h.run(40, 0.05)
	require.Equal(t, weapon.PhaseHidden, h.sim.Phase())

	h.ready()
	require.True(t, h.sim.OnFireIntent(true))
	require.True(t, h.sim.OnReloadIntent())
	h.sim.OnHideIntent()
	require.False(t, h.sim.Snapshot().HasDeadline)
	h.run(40, 0.05)
	require.Equal(t, weapon.PhaseHidden, h.sim.Phase())
	require.Equal(t, 7, h.sim.Ammo())

	h.ready()
	h.sim.OnHideIntent()
	require.False(t, h.sim.OnFireIntent(true))
	require.False(t, h.sim.OnReloadIntent())
}

func TestUnequipDropsTimers(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig())
	h.sim.OnEquip()
	h.sim.OnUnequip()

	h.run(40, 0.05)
	snap := h.sim.Snapshot()
	require.Equal(t, weapon.PhaseHidden, snap.Phase)
	require.False(t, snap.Equipped)
	require.False(t, snap.HasDeadline)
	require.False(t, h.sim.OnFireIntent(true))
}

func TestRecoilKicksAndDecays(t *testing.T) {
	h := newHarness(t, automatic(weapon.DefaultProfileConfig())).alwaysMiss()
	h.ready()
	require.True(t, h.sim.Snapshot().Pose.AtRest())

	require.True(t, h.sim.OnFireIntent(true))
	pose := h.sim.Snapshot().Pose
	require.Equal(t, -4.0, pose.Pitch)
	require.InDelta(t, 0.08, pose.LocalPosition.Z, 1e-12)
	require.Zero(t, pose.LocalPosition.X)

	prev := pose.LocalPosition.Length()
	for range 30 {
		h.sim.Tick(0.016)
		cur := h.sim.Snapshot().Pose.LocalPosition.Length()
		require.Less(t, cur, prev)
		prev = cur
	}
	require.Greater(t, h.sim.Snapshot().Pose.Pitch, -4.0)
}

func TestRecoilRightAxisWithNegativeSign(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.RecoilAxis = weapon.RecoilRight
	cfg.RecoilSign = -1
	cfg.RecoilForce = 10
	h := newHarness(t, cfg).alwaysMiss()
	h.ready()

	require.True(t, h.sim.OnFireIntent(true))
	pose := h.sim.Snapshot().Pose
	require.Equal(t, physics.Vec3{X: -0.2}, pose.LocalPosition)
	require.Equal(t, -10.0, pose.Pitch)
}

func TestHitSpawnsEffectAndIgnoresOwner(t *testing.T) {
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.FireIntervalSeconds = 0
	cfg.HittableCategories = []uint{1, 3}
	h := newHarness(t, cfg, weapon.WithOwner(42))
	h.ready()

	wantRay := physics.Ray{Origin: eyeLevel.origin, Direction: eyeLevel.forward}
	mask := physics.Category(1) | physics.Category(3)
	normal := physics.Vec3{Z: -1}
	wall := physics.HitResult{Hit: true, Point: physics.Vec3{Y: 1.7, Z: 10}, Normal: normal, Distance: 10, TargetID: 7}
	self := physics.HitResult{Hit: true, Point: physics.Vec3{Y: 1.7, Z: 0.3}, Normal: normal, Distance: 0.3, TargetID: 42}

	gomock.InOrder(
		h.world.EXPECT().Raycast(wantRay, 200.0, mask).Return(wall, true),
		h.world.EXPECT().Raycast(wantRay, 200.0, mask).Return(self, true),
		h.world.EXPECT().Raycast(wantRay, 200.0, mask).Return(physics.HitResult{}, false),
	)
	wantPos := wall.Point.Add(normal.Scale(weapon.HitEffectOffset))
	h.effects.EXPECT().SpawnTransientEffect(wantPos, normal, 4*time.Second).Times(1)

	for range 3 {
		require.True(t, h.sim.OnFireIntent(true))
		h.run(1, 0.05)
	}
	require.Equal(t, 5, h.sim.Ammo())
}

type damageWorld struct {
	hit     physics.HitResult
	health  map[physics.EntityID]float64
	applied []float64
}

func (w *damageWorld) Raycast(physics.Ray, float64, physics.CategoryMask) (physics.HitResult, bool) {
	return w.hit, w.hit.Hit
}

func (w *damageWorld) ApplyDamage(target physics.EntityID, amount float64) (bool, bool) {
	hp, ok := w.health[target]
	if !ok || hp <= 0 {
		return false, false
	}
	w.applied = append(w.applied, amount)
	hp = math.Max(hp-amount, 0)
	w.health[target] = hp
	return hp == 0, true
}

func TestDamageNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	effects := mocks.NewMockEffectSink(ctrl)
	effects.EXPECT().SpawnTransientEffect(gomock.Any(), gomock.Any(), weapon.HitEffectLifetime).Times(3)

	world := &damageWorld{
		hit:    physics.HitResult{Hit: true, Point: physics.Vec3{Z: 5}, Normal: physics.Vec3{Z: -1}, TargetID: 9},
		health: map[physics.EntityID]float64{9: 50},
	}
	cfg := automatic(weapon.DefaultProfileConfig())
	cfg.FireIntervalSeconds = 0
	cfg.Damage = 25
	r := relay.New()
	var dealt []relay.DamageDealt
	relay.On(r, func(n relay.DamageDealt) { dealt = append(dealt, n) })

	sim, err := weapon.New(weapon.MustProfile(cfg), weapon.Dependencies{
		World:    world,
		Cues:     weapon.CueFunc(func(weapon.Cue) {}),
		Notifier: r,
		Effects:  effects,
		View:     eyeLevel,
	})
	require.NoError(t, err)
	sim.OnEquip()
	sim.Tick(2)

	for range 3 {
		require.True(t, sim.OnFireIntent(true))
	}

	require.Equal(t, []relay.DamageDealt{{WasLethal: false}, {WasLethal: true}}, dealt)
	require.Equal(t, []float64{25, 25}, world.applied)
}

type muzzleRecorder struct{ shots int }

func (m *muzzleRecorder) OnShot(_, _ physics.Vec3) { m.shots++ }

func TestMuzzleExtension(t *testing.T) {
	muzzle := &muzzleRecorder{}
	h := newHarness(t, automatic(weapon.DefaultProfileConfig()), weapon.WithMuzzle(muzzle)).alwaysMiss()
	h.ready()
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, 1, muzzle.shots)
}

func TestSetAmmoClamps(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig())

	h.sim.SetAmmo(3)
	require.Equal(t, relay.AmmoChanged{Current: 3, Max: 8}, h.lastAmmo())
	h.sim.SetAmmo(-2)
	require.Equal(t, 0, h.sim.Ammo())
	h.sim.SetAmmo(99)
	require.Equal(t, 8, h.sim.Ammo())
}

func TestEquipFireGateFireScenario(t *testing.T) {
	h := newHarness(t, weapon.DefaultProfileConfig()).alwaysMiss()
	h.sim.OnEquip()

	h.run(14, 0.1)
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, relay.AmmoChanged{Current: 7, Max: 8}, h.lastAmmo())
	h.sim.OnFireIntent(false)

	h.run(2, 0.1)
	require.False(t, h.sim.OnFireIntent(true))
	require.Equal(t, relay.AmmoChanged{Current: 7, Max: 8}, h.lastAmmo())
	h.sim.OnFireIntent(false)

	h.run(5, 0.1)
	require.True(t, h.sim.OnFireIntent(true))
	require.Equal(t, relay.AmmoChanged{Current: 6, Max: 8}, h.lastAmmo())
}

func TestAmmoInvariantUnderRandomInput(t *testing.T) {
	profiles := map[string]weapon.ProfileConfig{
		"pistol": weapon.DefaultProfileConfig(),
		"smg": {
			Name: "smg", FireRange: 80, RecoilForce: 1, FireIntervalSeconds: 0.08,
			MaxAmmo: 30, DrawTimeSeconds: 0.5, ReloadTimeSeconds: 2, ShotMode: weapon.ShotAutomatic,
		},
		"instant": {
			Name: "instant", FireRange: 10, MaxAmmo: 2, ShotMode: weapon.ShotAutomatic,
		},
	}
	for name, cfg := range profiles {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, cfg).alwaysMiss()
			h.cues.EXPECT().Trigger(gomock.Any()).AnyTimes()
			rng := rand.New(rand.NewPCG(1, uint64(len(name))))

			h.sim.OnEquip()
			for range 2000 {
				switch roll := rng.IntN(100); {
				case roll < 60:
					h.sim.OnFireIntent(rng.IntN(2) == 0)
				case roll < 75:
					h.sim.OnReloadIntent()
				case roll < 77:
					h.sim.OnHideIntent()
				case roll < 80:
					h.sim.OnEquip()
				}
				h.requireAmmoInRange()
				h.run(1, rng.Float64()*0.05)
			}
		})
	}
}
