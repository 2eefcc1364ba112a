// Package lighting provides the scene's ambient light.
package lighting

// Ambient illuminates every fragment uniformly, with no directional term.
// The viewer's scene carries exactly one.
type Ambient struct {
	Color     [3]float32 // RGB color (0-1 range)
	Intensity float32    // Brightness multiplier
}

// NewAmbient creates a white ambient light at the given intensity.
func NewAmbient(intensity float32) Ambient {
	return Ambient{
		Color:     [3]float32{1.0, 1.0, 1.0},
		Intensity: intensity,
	}
}

// Clamped returns a copy with color and intensity limited to the 0-1 range.
// Configs sometimes carry values outside it.
func (a Ambient) Clamped() Ambient {
	out := a
	for i := 0; i < 3; i++ {
		if out.Color[i] > 1.0 {
			out.Color[i] = 1.0
		}
		if out.Color[i] < 0.0 {
			out.Color[i] = 0.0
		}
	}
	if out.Intensity > 1.0 {
		out.Intensity = 1.0
	}
	if out.Intensity < 0.0 {
		out.Intensity = 0.0
	}
	return out
}

// Scaled returns color scaled by intensity, ready for GPU upload.
func (a Ambient) Scaled() [3]float32 {
	c := a.Clamped()
	return [3]float32{
		c.Color[0] * c.Intensity,
		c.Color[1] * c.Intensity,
		c.Color[2] * c.Intensity,
	}
}
