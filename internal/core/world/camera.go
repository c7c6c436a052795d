package world

import (
	"math"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// Camera is a first-person viewpoint. Yaw turns right around +Y and pitch
// looks up, both in degrees. Zero yaw and pitch look down +Z.
type Camera struct {
	Position physics.Vec3
	Yaw      float64
	Pitch    float64
}

func (c *Camera) Origin() physics.Vec3 { return c.Position }

func (c *Camera) Forward() physics.Vec3 {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	return physics.Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target physics.Vec3) {
	d := target.Sub(c.Position)
	if d == physics.Zero {
		return
	}
	c.Yaw = math.Atan2(d.X, d.Z) * 180 / math.Pi
	c.Pitch = math.Atan2(d.Y, math.Hypot(d.X, d.Z)) * 180 / math.Pi
}
