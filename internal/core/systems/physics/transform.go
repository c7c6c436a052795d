package physics

// Transform is the local pose of a view-model (a weapon held in front of the
// camera): an offset from its rest position and a pitch in degrees.
type Transform struct {
	LocalPosition Vec3
	Pitch         float64
}

// Rotate adds degrees of pitch around the lateral axis.
func (t *Transform) Rotate(degrees float64) {
	t.Pitch += degrees
}

// Translate offsets the local position.
func (t *Transform) Translate(delta Vec3) {
	t.LocalPosition = t.LocalPosition.Add(delta)
}

// Settle moves the pose toward rest by factor t in [0, 1].
func (t *Transform) Settle(factor float64) {
	t.LocalPosition = t.LocalPosition.Lerp(Zero, factor)
	t.Pitch = LerpFloat(t.Pitch, 0, factor)
}

// AtRest reports whether the pose is exactly at its rest position.
func (t Transform) AtRest() bool {
	return t.LocalPosition == Zero && t.Pitch == 0
}
