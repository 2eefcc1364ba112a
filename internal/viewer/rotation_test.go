package viewer

import (
	gomath "math"
	"testing"

	"pgregory.net/rapid"
)

const angleEpsilon = 1e-9

func TestDragAccumulation(t *testing.T) {
	r := NewRotation(0.001)
	for _, delta := range []float32{100, -50, 200} {
		r.OnDrag(delta)
	}
	if got := r.Angle(); gomath.Abs(got-0.25) > angleEpsilon {
		t.Errorf("Angle() = %v, want 0.25", got)
	}
}

func TestDragNotClampedToOneTurn(t *testing.T) {
	r := NewRotation(1.0)
	for i := 0; i < 7; i++ {
		r.OnDrag(1)
	}
	// 7 rad is past a full turn but below the reduction threshold, so the
	// accumulated value must survive untouched.
	if got := r.Angle(); got != 7 {
		t.Errorf("Angle() = %v, want 7", got)
	}
}

func TestAngleReduction(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
	}{
		{"positive", 13},
		{"negative", -13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRotation(1.0)
			r.OnDrag(tt.delta)

			got := r.Angle()
			if gomath.Abs(got) >= 2*gomath.Pi {
				t.Errorf("Angle() = %v, want reduced below one turn", got)
			}
			// Reduction must not change the visible orientation.
			raw := float64(tt.delta)
			if gomath.Abs(gomath.Sin(got)-gomath.Sin(raw)) > angleEpsilon ||
				gomath.Abs(gomath.Cos(got)-gomath.Cos(raw)) > angleEpsilon {
				t.Errorf("reduced angle %v is not equivalent to %v", got, raw)
			}
		})
	}
}

func TestSensitivity(t *testing.T) {
	if got := NewRotation(0).Sensitivity(); got != DefaultSensitivity {
		t.Errorf("NewRotation(0) sensitivity = %v, want default %v", got, DefaultSensitivity)
	}
	if got := NewRotation(-1).Sensitivity(); got != DefaultSensitivity {
		t.Errorf("NewRotation(-1) sensitivity = %v, want default %v", got, DefaultSensitivity)
	}

	r := NewRotation(0.5)
	r.SetSensitivity(0)
	if got := r.Sensitivity(); got != 0.5 {
		t.Errorf("SetSensitivity(0) changed sensitivity to %v", got)
	}
	r.SetSensitivity(0.25)
	if got := r.Sensitivity(); got != 0.25 {
		t.Errorf("Sensitivity() = %v, want 0.25", got)
	}
}

func TestSensitivityAppliesPerDrag(t *testing.T) {
	r := NewRotation(0.001)
	r.OnDrag(100)
	r.SetSensitivity(0.01)
	r.OnDrag(100)
	if got := r.Angle(); gomath.Abs(got-1.1) > angleEpsilon {
		t.Errorf("Angle() = %v, want 1.1", got)
	}
}

func TestRotationLinearity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := NewRotation(0.001)
		numDrags := rapid.IntRange(1, 100).Draw(rt, "numDrags")

		var sum float64
		for i := 0; i < numDrags; i++ {
			delta := float32(rapid.Float64Range(-50, 50).Draw(rt, "delta"))
			r.OnDrag(delta)
			sum += float64(delta) * 0.001
		}

		// Worst case is 5 rad, safely below the reduction threshold, so the
		// angle must be exactly the running sum of scaled deltas.
		if gomath.Abs(r.Angle()-sum) > 1e-12 {
			rt.Fatalf("angle %v diverged from drag sum %v", r.Angle(), sum)
		}
	})
}
