// Package camera provides the viewer's fixed framing camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/turntable/pkg/math"
)

// Fixed frames the origin from a point on the positive Z axis. The camera
// never moves; the model rotates under it instead.
type Fixed struct {
	FOVDegrees float32
	Distance   float32
	Near       float32
	Far        float32
}

// New creates a fixed camera with default framing.
func New() *Fixed {
	return &Fixed{
		FOVDegrees: 45.0,
		Distance:   3.0,
		Near:       0.1,
		Far:        100.0,
	}
}

// Position returns the camera position in world space.
func (c *Fixed) Position() math.Vec3 {
	return math.Vec3{X: 0, Y: 0, Z: c.Distance}
}

// ViewMatrix returns the view matrix looking at the origin.
func (c *Fixed) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), math.Vec3{}, up)
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *Fixed) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	fov := c.FOVDegrees * gomath.Pi / 180
	return math.Perspective(fov, aspect, c.Near, c.Far)
}
