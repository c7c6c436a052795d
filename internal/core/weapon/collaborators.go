package weapon

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . World,CueSink,EffectSink

import (
	"time"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// World answers hit-scan queries. Raycast must be synchronous and must not
// mutate the world; ok is false when nothing was hit.
type World interface {
	Raycast(ray physics.Ray, maxDistance float64, mask physics.CategoryMask) (hit physics.HitResult, ok bool)
}

// Damageable is an optional World capability. When the world implements it,
// hits from weapons with positive damage are applied to the target.
type Damageable interface {
	ApplyDamage(target physics.EntityID, amount float64) (lethal, applied bool)
}

// Cue names an animation trigger.
type Cue string

const (
	CueReloading Cue = "Reloading"
	CueHiding    Cue = "Hiding"
)

// CueSink plays animation cues. Calls are fire-and-forget.
type CueSink interface {
	Trigger(cue Cue)
}

// CueFunc adapts a function to CueSink.
type CueFunc func(Cue)

func (f CueFunc) Trigger(cue Cue) { f(cue) }

// EffectSink receives short-lived visual effects such as bullet holes.
type EffectSink interface {
	SpawnTransientEffect(position, orientation physics.Vec3, lifetime time.Duration)
}

// Viewpoint is the aiming camera hit-scan rays are cast from.
type Viewpoint interface {
	Origin() physics.Vec3
	Forward() physics.Vec3
}

// MuzzleCue is the extension point for muzzle flash and bullet trace visuals.
type MuzzleCue interface {
	OnShot(origin, direction physics.Vec3)
}
