package weapon

import "github.com/zeusync/weaponsim/internal/core/systems/physics"

const (
	// recoilDisplacementDivisor scales recoil force into local displacement.
	recoilDisplacementDivisor = 50.0
	// recoilRecoveryRate is the per-second factor the pose settles back by.
	recoilRecoveryRate = 5.0
)

// Kick is the pose change caused by one shot.
type Kick struct {
	Pitch        float64
	Displacement physics.Vec3
}

// RecoilKick computes the kick for a shot: pitch up by force degrees and a
// push along axis scaled by force/50 and sign.
func RecoilKick(axis RecoilAxis, force, sign float64) Kick {
	return Kick{
		Pitch:        -force,
		Displacement: axis.Vector().Scale(sign * force / recoilDisplacementDivisor),
	}
}

// applyKick adds k to the pose.
func applyKick(pose *physics.Transform, k Kick) {
	pose.Rotate(k.Pitch)
	pose.Translate(k.Displacement)
}

// settle decays the pose toward rest for a tick of dt seconds.
func settle(pose *physics.Transform, dt float64) {
	if dt <= 0 {
		return
	}
	pose.Settle(recoilRecoveryRate * dt)
}
