// Package formats decodes remote 3D asset payloads into renderable meshes.
// Supported inputs are Wavefront OBJ text and binary glTF (GLB) containers.
package formats

import (
	"bytes"
	"errors"

	"github.com/Faultbox/turntable/pkg/math"
)

// Decoding errors shared by all formats.
var (
	ErrEmptyPayload = errors.New("empty asset payload")
	ErrNoGeometry   = errors.New("asset contains no triangle geometry")
)

// glbMagic identifies a binary glTF container.
var glbMagic = []byte("glTF")

// Vertex is a single mesh vertex. Position and normal are in model space.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// VertexFloats is the number of float32 components per interleaved vertex.
const VertexFloats = 8

// Mesh is parsed triangle geometry. It is immutable once decoded; consumers
// read it but never modify it.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	bounds BoundingBox
}

// NewMesh builds a mesh from vertex and index data and caches its bounds.
func NewMesh(vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{Vertices: vertices, Indices: indices}
	m.bounds = computeBounds(vertices)
	return m
}

// Bounds returns the axis-aligned bounding box enclosing all vertices.
func (m *Mesh) Bounds() BoundingBox {
	return m.bounds
}

// VertexCount returns the number of unique vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Interleaved returns the vertex data laid out for GPU upload:
// position (3 floats), normal (3 floats), texcoord (2 floats) per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexFloats)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.UV.X, v.UV.Y,
		)
	}
	return out
}

// BoundingBox is the minimal axis-aligned box enclosing a mesh.
type BoundingBox struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents along each axis.
func (b BoundingBox) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

func computeBounds(vertices []Vertex) BoundingBox {
	if len(vertices) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		b.Min = b.Min.Min(v.Position)
		b.Max = b.Max.Max(v.Position)
	}
	return b
}

// Decode sniffs the payload format and decodes it into a mesh. Binary glTF
// is recognized by its magic bytes; anything else is treated as OBJ text.
func Decode(data []byte) (*Mesh, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}
	if bytes.HasPrefix(data, glbMagic) {
		return DecodeGLB(data)
	}
	return DecodeOBJ(data)
}

// smoothNormals fills vertex normals by accumulating area-weighted face
// normals and normalizing the result. Used when the source asset carries no
// normal data.
func smoothNormals(vertices []Vertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = math.Vec3{}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a := vertices[indices[i]].Position
		b := vertices[indices[i+1]].Position
		c := vertices[indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		vertices[indices[i]].Normal = vertices[indices[i]].Normal.Add(n)
		vertices[indices[i+1]].Normal = vertices[indices[i+1]].Normal.Add(n)
		vertices[indices[i+2]].Normal = vertices[indices[i+2]].Normal.Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = vertices[i].Normal.Normalize()
	}
}
