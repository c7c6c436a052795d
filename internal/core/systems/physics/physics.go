package physics

import "math"

// Lightweight 3D math for hit-scan queries and weapon poses. Coordinates are
// right-handed with +Y up and +Z forward.

// Vec3 is a 3D vector.
type Vec3 struct{ X, Y, Z float64 }

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Right   = Vec3{X: 1}
	Forward = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector of v, or Zero for a zero-length v.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

// Lerp moves v toward target by t, with t clamped to [0, 1].
func (v Vec3) Lerp(target Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return v.Add(target.Sub(v).Scale(t))
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// LerpFloat moves a toward b by t, with t clamped to [0, 1].
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}
