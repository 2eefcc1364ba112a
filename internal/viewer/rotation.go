package viewer

import (
	gomath "math"
)

// DefaultSensitivity converts horizontal drag pixels to radians.
const DefaultSensitivity = 0.001

// reduceThreshold bounds the accumulated angle. Crossing it folds the angle
// back into (-2pi, 2pi), which changes nothing visually but keeps float
// precision stable over very long drag sessions.
const reduceThreshold = 4 * gomath.Pi

// Rotation accumulates horizontal drag into the turntable angle. The angle
// grows linearly with drag distance in either direction and is never
// clamped to a range.
type Rotation struct {
	angle       float64
	sensitivity float64
}

// NewRotation returns a rotation controller with the given sensitivity in
// radians per pixel. Non-positive values fall back to DefaultSensitivity.
func NewRotation(sensitivity float64) *Rotation {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	return &Rotation{sensitivity: sensitivity}
}

// OnDrag folds one frame's horizontal drag delta, in pixels, into the
// angle. Positive deltas spin one way, negative the other.
func (r *Rotation) OnDrag(deltaX float32) {
	r.angle += float64(deltaX) * r.sensitivity
	if r.angle > reduceThreshold || r.angle < -reduceThreshold {
		r.angle = gomath.Mod(r.angle, 2*gomath.Pi)
	}
}

// Angle returns the current turntable angle in radians.
func (r *Rotation) Angle() float64 {
	return r.angle
}

// Sensitivity returns the current drag sensitivity.
func (r *Rotation) Sensitivity() float64 {
	return r.sensitivity
}

// SetSensitivity changes the drag sensitivity, for example after a config
// reload. Non-positive values are ignored.
func (r *Rotation) SetSensitivity(s float64) {
	if s > 0 {
		r.sensitivity = s
	}
}
