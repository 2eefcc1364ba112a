// Package lighting provides the scene's directional key light.
package lighting

import "math"

// Directional is a single infinitely distant light. Direction points from
// the surface towards the light, in world space.
type Directional struct {
	Direction [3]float32
	Color     [3]float32 // RGB color (0-1 range)
}

// Direction converts azimuth/elevation angles to a light direction vector.
// Azimuth is rotation around the Y axis (0-360), elevation rises from the
// horizon (0-90). Returns a normalized vector pointing towards the light.
func Direction(azimuth, elevation float32) [3]float32 {
	azRad := float64(azimuth) * math.Pi / 180.0
	elRad := float64(elevation) * math.Pi / 180.0

	x := float32(math.Cos(elRad) * math.Sin(azRad))
	y := float32(math.Sin(elRad))
	z := float32(math.Cos(elRad) * math.Cos(azRad))

	return [3]float32{x, y, z}
}

// NewKeyLight returns the default key light, a neutral grey placed above
// and to the right of the camera.
func NewKeyLight() Directional {
	return Directional{
		Direction: Direction(30, 55),
		Color:     [3]float32{0.6, 0.6, 0.6},
	}
}
