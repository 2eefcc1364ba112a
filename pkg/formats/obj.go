// Wavefront OBJ decoder. Only geometry is read: positions, texture
// coordinates, normals and faces. Materials and object groups are ignored.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/turntable/pkg/math"
)

// ErrMalformedOBJ reports OBJ text that cannot be decoded.
var ErrMalformedOBJ = errors.New("malformed OBJ data")

// objCorner references one face corner by its 1-based source indices.
// Zero means the component was not given; negative values count from the end.
type objCorner struct {
	v, vt, vn int
}

// DecodeOBJ decodes Wavefront OBJ text into a mesh. Faces with more than
// three corners are fanned into triangles. Negative indices are resolved
// relative to the elements seen so far, as the format requires.
func DecodeOBJ(data []byte) (*Mesh, error) {
	var (
		positions []math.Vec3
		texcoords []math.Vec2
		normals   []math.Vec3
		corners   [][]objCorner
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, objError(lineNo, "vertex", err)
			}
			positions = append(positions, p)
		case "vt":
			if len(fields) < 3 {
				return nil, objError(lineNo, "texcoord", errTooFewComponents)
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, objError(lineNo, "texcoord", errBadNumber)
			}
			texcoords = append(texcoords, math.Vec2{X: u, Y: v})
		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, objError(lineNo, "normal", err)
			}
			normals = append(normals, n)
		case "f":
			face, err := parseFace(fields[1:], len(positions), len(texcoords), len(normals))
			if err != nil {
				return nil, objError(lineNo, "face", err)
			}
			corners = append(corners, face)
		default:
			// mtllib, usemtl, o, g, s and anything else carry no geometry.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}

	return buildOBJMesh(positions, texcoords, normals, corners)
}

var (
	errTooFewComponents = errors.New("too few components")
	errBadNumber        = errors.New("invalid number")
	errIndexRange       = errors.New("index out of range")
)

func objError(line int, what string, err error) error {
	return fmt.Errorf("%w: line %d: %s: %v", ErrMalformedOBJ, line, what, err)
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseFloats3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, errTooFewComponents
	}
	x, err1 := parseFloat(fields[0])
	y, err2 := parseFloat(fields[1])
	z, err3 := parseFloat(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return math.Vec3{}, errBadNumber
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

// parseFace parses "v", "v/vt", "v//vn" and "v/vt/vn" corner specs and
// resolves each index against the element counts seen so far.
func parseFace(args []string, nPos, nTex, nNorm int) ([]objCorner, error) {
	if len(args) < 3 {
		return nil, errTooFewComponents
	}
	face := make([]objCorner, len(args))
	for i, arg := range args {
		parts := strings.Split(arg, "/")
		var c objCorner
		var err error
		if c.v, err = resolveIndex(parts[0], nPos, true); err != nil {
			return nil, err
		}
		if len(parts) > 1 {
			if c.vt, err = resolveIndex(parts[1], nTex, false); err != nil {
				return nil, err
			}
		}
		if len(parts) > 2 {
			if c.vn, err = resolveIndex(parts[2], nNorm, false); err != nil {
				return nil, err
			}
		}
		face[i] = c
	}
	return face, nil
}

// resolveIndex turns an OBJ index string into a 1-based positive index.
// Empty strings resolve to 0 (absent) unless the component is required.
func resolveIndex(s string, length int, required bool) (int, error) {
	if s == "" {
		if required {
			return 0, errBadNumber
		}
		return 0, nil
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadNumber
	}
	if idx < 0 {
		idx += length + 1
	}
	if idx < 1 || idx > length {
		return 0, errIndexRange
	}
	return idx, nil
}

func buildOBJMesh(positions []math.Vec3, texcoords []math.Vec2, normals []math.Vec3, faces [][]objCorner) (*Mesh, error) {
	var (
		vertices []Vertex
		indices  []uint32
		lookup   = make(map[Vertex]uint32)
	)
	haveNormals := len(normals) > 0

	addVertex := func(v Vertex) uint32 {
		if idx, ok := lookup[v]; ok {
			return idx
		}
		idx := uint32(len(vertices))
		vertices = append(vertices, v)
		lookup[v] = idx
		return idx
	}

	for _, face := range faces {
		// Fan triangulation around the first corner.
		for i := 1; i < len(face)-1; i++ {
			for _, c := range []objCorner{face[0], face[i], face[i+1]} {
				var v Vertex
				v.Position = positions[c.v-1]
				if c.vt > 0 {
					v.UV = texcoords[c.vt-1]
				}
				if c.vn > 0 {
					v.Normal = normals[c.vn-1]
				}
				indices = append(indices, addVertex(v))
			}
		}
	}
	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}
	if !haveNormals {
		smoothNormals(vertices, indices)
	}
	return NewMesh(vertices, indices), nil
}
