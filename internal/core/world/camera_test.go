package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

func TestCameraForward(t *testing.T) {
	c := &Camera{Position: physics.Vec3{Y: 1.7}}
	require.Equal(t, physics.Vec3{Y: 1.7}, c.Origin())
	require.InDelta(t, 1.0, c.Forward().Z, 1e-12)

	c.Yaw = 90
	f := c.Forward()
	require.InDelta(t, 1.0, f.X, 1e-12)
	require.InDelta(t, 0.0, f.Z, 1e-12)

	c.LookAt(physics.Vec3{X: -3, Y: 1.7, Z: 3})
	f = c.Forward()
	require.InDelta(t, -0.7071067811865476, f.X, 1e-9)
	require.InDelta(t, 0.7071067811865476, f.Z, 1e-9)
	require.InDelta(t, 0.0, f.Y, 1e-9)
	require.InDelta(t, 1.0, f.Length(), 1e-12)
}
