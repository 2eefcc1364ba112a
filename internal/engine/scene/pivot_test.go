package scene

import (
	gomath "math"
	"testing"

	"pgregory.net/rapid"

	"github.com/Faultbox/turntable/pkg/formats"
	"github.com/Faultbox/turntable/pkg/math"
)

const epsilon = 1e-5

// boxMesh builds a two-vertex mesh spanning the given corners. Enough for
// bounds-driven tests without real geometry.
func boxMesh(min, max math.Vec3) *formats.Mesh {
	return formats.NewMesh([]formats.Vertex{
		{Position: min},
		{Position: max},
	}, []uint32{0, 1, 0})
}

func TestNormalizeCenteredCube(t *testing.T) {
	mesh := boxMesh(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	pivot := Normalize(mesh)

	if off := pivot.Offset(); off.X != 0 || off.Y != 0 || off.Z != 0 {
		t.Errorf("expected zero offset for centered cube, got %+v", off)
	}
	if pivot.Angle() != 0 {
		t.Errorf("expected zero initial angle, got %v", pivot.Angle())
	}
}

func TestNormalizeOffsetCube(t *testing.T) {
	mesh := boxMesh(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 3, Y: 3, Z: 3})

	pivot := Normalize(mesh)

	off := pivot.Offset()
	if off.X != -2 || off.Y != -2 || off.Z != -2 {
		t.Errorf("expected offset (-2, -2, -2), got %+v", off)
	}

	// The bounding box center lands on the origin
	center := pivot.ModelMatrix().TransformPoint(math.Vec3{X: 2, Y: 2, Z: 2})
	if abs(center.X) > epsilon || abs(center.Y) > epsilon || abs(center.Z) > epsilon {
		t.Errorf("expected centered model, center mapped to %+v", center)
	}
}

func TestNormalizeSinglePoint(t *testing.T) {
	mesh := formats.NewMesh([]formats.Vertex{
		{Position: math.Vec3{X: 5, Y: 6, Z: 7}},
	}, nil)

	pivot := Normalize(mesh)

	off := pivot.Offset()
	if off.X != -5 || off.Y != -6 || off.Z != -7 {
		t.Errorf("expected offset (-5, -6, -7) for degenerate bounds, got %+v", off)
	}
}

func TestNormalizeDoesNotMutateMesh(t *testing.T) {
	mesh := boxMesh(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 3, Y: 3, Z: 3})

	Normalize(mesh)

	if mesh.Vertices[0].Position != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("mesh vertex was mutated: %+v", mesh.Vertices[0].Position)
	}
	if b := mesh.Bounds(); b.Min != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("mesh bounds were mutated: %+v", b)
	}
}

// TestNormalizeCentersArbitraryBoxes checks that any axis-aligned box,
// degenerate ones included, ends up with its center on the origin.
func TestNormalizeCentersArbitraryBoxes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coord := rapid.Float64Range(-1000, 1000)
		a := math.Vec3{
			X: float32(coord.Draw(rt, "ax")),
			Y: float32(coord.Draw(rt, "ay")),
			Z: float32(coord.Draw(rt, "az")),
		}
		b := math.Vec3{
			X: float32(coord.Draw(rt, "bx")),
			Y: float32(coord.Draw(rt, "by")),
			Z: float32(coord.Draw(rt, "bz")),
		}

		mesh := boxMesh(a, b)
		pivot := Normalize(mesh)

		center := mesh.Bounds().Center()
		mapped := pivot.ModelMatrix().TransformPoint(center)

		if abs(mapped.X) > epsilon || abs(mapped.Y) > epsilon || abs(mapped.Z) > epsilon {
			rt.Fatalf("box (%+v, %+v): center mapped to %+v, want origin", a, b, mapped)
		}
	})
}

func TestModelMatrixRotatesAroundCenter(t *testing.T) {
	mesh := boxMesh(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 3, Y: 3, Z: 3})
	pivot := Normalize(mesh)
	pivot.SetAngle(gomath.Pi / 2)

	m := pivot.ModelMatrix()

	// The center stays put under rotation
	center := m.TransformPoint(math.Vec3{X: 2, Y: 2, Z: 2})
	if abs(center.X) > epsilon || abs(center.Y) > epsilon || abs(center.Z) > epsilon {
		t.Errorf("center moved under rotation: %+v", center)
	}

	// A point one unit +X of the center swings to -Z after a quarter turn
	p := m.TransformPoint(math.Vec3{X: 3, Y: 2, Z: 2})
	if abs(p.X) > epsilon || abs(p.Y) > epsilon || abs(p.Z+1) > epsilon {
		t.Errorf("expected (0, 0, -1), got %+v", p)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
