package weapon

import (
	"fmt"
	"time"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// Phase is the state of the weapon state machine.
type Phase uint8

const (
	PhaseDrawing Phase = iota
	PhaseReady
	PhaseReloading
	PhaseHidden
)

func (p Phase) String() string {
	switch p {
	case PhaseDrawing:
		return "drawing"
	case PhaseReady:
		return "ready"
	case PhaseReloading:
		return "reloading"
	case PhaseHidden:
		return "hidden"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// timed reports whether the phase completes at a deadline.
func (p Phase) timed() bool {
	return p == PhaseDrawing || p == PhaseReloading
}

// RuntimeState is the mutable part of an equipped weapon.
// Invariant: 0 <= CurrentAmmo <= Profile.MaxAmmo().
type RuntimeState struct {
	CurrentAmmo int
	// LastShot is the simulation time of the last executed shot. It is only
	// meaningful when HasShot is set; a weapon that never fired is always
	// past its fire interval.
	LastShot time.Duration
	HasShot  bool
	Phase    Phase
	// Deadline is the simulation time a timed phase completes at.
	Deadline    time.Duration
	HasDeadline bool
}

// Snapshot is a read-only copy of a simulator's state.
type Snapshot struct {
	RuntimeState
	Now      time.Duration
	Pose     physics.Transform
	Equipped bool
}
