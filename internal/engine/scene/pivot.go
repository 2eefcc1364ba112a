package scene

import (
	"github.com/Faultbox/turntable/pkg/formats"
	"github.com/Faultbox/turntable/pkg/math"
)

// Pivot anchors a model at the scene origin. The mesh keeps its authored
// coordinates; the pivot carries the centering offset and the turntable
// angle, which are folded into the model matrix each frame.
type Pivot struct {
	mesh   *formats.Mesh
	offset math.Vec3 // moves the bounding box center to the origin
	angle  float64   // turntable angle in radians around Y

	attached bool
	gpu      *gpuMesh // nil until the first render uploads the mesh
}

// Normalize wraps mesh in a pivot whose offset moves the mesh's bounding box
// center to the origin. The mesh itself is not modified.
func Normalize(mesh *formats.Mesh) *Pivot {
	center := mesh.Bounds().Center()
	return &Pivot{
		mesh:   mesh,
		offset: center.Scale(-1),
	}
}

// Mesh returns the model geometry.
func (p *Pivot) Mesh() *formats.Mesh {
	return p.mesh
}

// Offset returns the centering translation applied before rotation.
func (p *Pivot) Offset() math.Vec3 {
	return p.offset
}

// Angle returns the current turntable angle in radians.
func (p *Pivot) Angle() float64 {
	return p.angle
}

// SetAngle sets the turntable angle in radians.
func (p *Pivot) SetAngle(angle float64) {
	p.angle = angle
}

// Attached reports whether the pivot is currently installed in a scene.
func (p *Pivot) Attached() bool {
	return p.attached
}

// ModelMatrix returns the model transform: center first, then rotate, so the
// model spins around its own bounding box center.
func (p *Pivot) ModelMatrix() math.Mat4 {
	return math.RotateY(float32(p.angle)).Mul(math.Translate(p.offset))
}

// destroyGPU releases uploaded geometry. Safe to call when nothing was
// uploaded, which keeps graph operations usable without a GL context.
func (p *Pivot) destroyGPU() {
	if p.gpu != nil {
		p.gpu.destroy()
		p.gpu = nil
	}
}
