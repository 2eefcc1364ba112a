// Binary glTF (GLB) decoder built on qmuntal/gltf. All triangle primitives
// of all meshes in the document are merged into a single mesh; node
// transforms, materials and animations are ignored.
package formats

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/turntable/pkg/math"
)

// DecodeGLB decodes a binary glTF container into a mesh.
func DecodeGLB(data []byte) (*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode glb: %w", err)
	}

	var (
		vertices []Vertex
		indices  []uint32
	)

	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := primitive.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("glb positions: %w", err)
			}

			var normals [][3]float32
			if normIdx, ok := primitive.Attributes[gltf.NORMAL]; ok {
				normals, _ = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			}
			var texcoords [][2]float32
			if texIdx, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
				texcoords, _ = modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil)
			}

			var primIndices []uint32
			if primitive.Indices != nil {
				primIndices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("glb indices: %w", err)
				}
			} else {
				primIndices = make([]uint32, len(positions))
				for i := range primIndices {
					primIndices[i] = uint32(i)
				}
			}

			base := uint32(len(vertices))
			for i, p := range positions {
				var v Vertex
				v.Position = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
				if i < len(normals) {
					v.Normal = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
				}
				if i < len(texcoords) {
					v.UV = math.Vec2{X: texcoords[i][0], Y: texcoords[i][1]}
				}
				vertices = append(vertices, v)
			}
			if len(normals) == 0 {
				// Fill in normals for this primitive's vertex range.
				sub := vertices[base:]
				smoothNormals(sub, primIndices)
			}
			for _, idx := range primIndices {
				indices = append(indices, base+idx)
			}
		}
	}

	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}
	return NewMesh(vertices, indices), nil
}
