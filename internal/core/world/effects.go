package world

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// Effect is a short-lived decal such as a bullet hole.
type Effect struct {
	ID          string
	Position    physics.Vec3
	Orientation physics.Vec3
	Remaining   time.Duration
}

// Effects keeps transient effects alive until their lifetime runs out.
type Effects struct {
	mu      sync.Mutex
	active  []Effect
	limit   int
	spawned int64
}

// NewEffects creates a pool holding at most limit effects. Older effects are
// dropped first once the pool is full. A non-positive limit means unbounded.
func NewEffects(limit int) *Effects {
	return &Effects{limit: limit}
}

// SpawnTransientEffect adds an effect that expires after lifetime.
func (e *Effects) SpawnTransientEffect(position, orientation physics.Vec3, lifetime time.Duration) {
	if lifetime <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = append(e.active, Effect{
		ID:          uuid.NewString(),
		Position:    position,
		Orientation: orientation,
		Remaining:   lifetime,
	})
	if e.limit > 0 && len(e.active) > e.limit {
		e.active = append(e.active[:0], e.active[len(e.active)-e.limit:]...)
	}
	e.spawned++
}

// Tick ages every effect by deltaTime seconds and discards expired ones.
func (e *Effects) Tick(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	elapsed := time.Duration(deltaTime * float64(time.Second))

	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.active[:0]
	for _, fx := range e.active {
		fx.Remaining -= elapsed
		if fx.Remaining > 0 {
			kept = append(kept, fx)
		}
	}
	clear(e.active[len(kept):])
	e.active = kept
}

// Active returns a copy of the live effects, oldest first.
func (e *Effects) Active() []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Effect, len(e.active))
	copy(out, e.active)
	return out
}

// Spawned returns how many effects were ever spawned.
func (e *Effects) Spawned() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spawned
}
