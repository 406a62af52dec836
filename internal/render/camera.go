package render

import (
	"math"

	"github.com/dmarch/specfall/internal/waterfall"
)

// camera is the fixed turntable viewpoint of the waterfall: looking down at
// the origin plane from slightly above and to the side, new slices nearest
// the viewer. There are no camera controls; the values are session
// constants.
type camera struct {
	centerX, centerY, centerZ float64
	yaw                       float64 // radians around the Y axis
	pitch                     float64 // radians around the X axis
	distance                  float64
	fov                       float64 // vertical field of view, radians
}

func defaultCamera() camera {
	return camera{
		centerX:  10, // middle of the 20-unit frequency axis
		centerY:  0,
		centerZ:  5, // middle of a 10-unit-deep history
		yaw:      -30 * math.Pi / 180,
		pitch:    30 * math.Pi / 180,
		distance: 30,
		fov:      45 * math.Pi / 180,
	}
}

// project maps a world-space vertex to screen coordinates. ok is false for
// vertices behind the near plane.
func (c camera) project(v waterfall.Vec3, width, height int) (sx, sy float32, ok bool) {
	x := v.X - c.centerX
	y := v.Y - c.centerY
	z := v.Z - c.centerZ

	// Turntable: yaw around Y, then pitch around X.
	sinY, cosY := math.Sincos(c.yaw)
	x, z = x*cosY-z*sinY, x*sinY+z*cosY
	sinP, cosP := math.Sincos(c.pitch)
	y, z = y*cosP-z*sinP, y*sinP+z*cosP

	// Camera sits at distance along +Z looking back at the center.
	depth := c.distance - z
	if depth < 0.1 {
		return 0, 0, false
	}

	f := float64(height) / 2 / math.Tan(c.fov/2)
	sx = float32(float64(width)/2 + x*f/depth)
	sy = float32(float64(height)/2 - y*f/depth)
	return sx, sy, true
}
