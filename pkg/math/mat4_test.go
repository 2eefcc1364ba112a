package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(Vec3{10, 20, 30})
	p := Vec3{1, 2, 3}
	result := m.TransformPoint(p)

	expected := Vec3{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	p := Vec3{1, 0, 0}                 // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateYFullTurn(t *testing.T) {
	// A full turn should bring a point back to itself.
	m := RotateY(float32(2 * math.Pi))
	p := Vec3{1, 2, 3}
	result := m.TransformPoint(p)

	if abs(result.X-1) > 0.001 || abs(result.Y-2) > 0.001 || abs(result.Z-3) > 0.001 {
		t.Errorf("RotateY 2pi: got %v, want %v", result, p)
	}
}

func TestRotateThenTranslate(t *testing.T) {
	// R * T applies the translation first, then the rotation.
	m := RotateY(float32(math.Pi / 2)).Mul(Translate(Vec3{1, 0, 0}))
	result := m.TransformPoint(Vec3{0, 0, 0})

	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY * Translate: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)
	result := m.TransformPoint(eye)

	// The eye position maps to the view-space origin.
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z) > 0.001 {
		t.Errorf("LookAt eye transform: got %v, want origin", result)
	}
}

func TestLookAtCenterOnNegativeZ(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)
	result := m.TransformPoint(center)

	// The look target sits straight ahead, down -Z in view space.
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+5) > 0.001 {
		t.Errorf("LookAt center transform: got %v, want (0, 0, -5)", result)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
