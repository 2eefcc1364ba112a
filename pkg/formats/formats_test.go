package formats

import (
	"errors"
	"testing"

	"github.com/Faultbox/turntable/pkg/math"
)

func TestDecode_SniffsOBJ(t *testing.T) {
	mesh, err := Decode([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := mesh.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
}

func TestDecode_SniffsGLB(t *testing.T) {
	mesh, err := Decode(triangleGLB(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := mesh.TriangleCount(); got != 1 {
		t.Errorf("TriangleCount() = %d, want 1", got)
	}
}

func TestDecode_Empty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"whitespace only", []byte("  \n\t  \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrEmptyPayload) {
				t.Errorf("Decode() error = %v, want ErrEmptyPayload", err)
			}
		})
	}
}

func TestBoundingBox_Center(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want math.Vec3
	}{
		{
			name: "unit cube around origin",
			box:  BoundingBox{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}},
			want: math.Vec3{},
		},
		{
			name: "offset box",
			box:  BoundingBox{Min: math.Vec3{X: 2, Y: 4, Z: 6}, Max: math.Vec3{X: 4, Y: 8, Z: 10}},
			want: math.Vec3{X: 3, Y: 6, Z: 8},
		},
		{
			name: "degenerate point box",
			box:  BoundingBox{Min: math.Vec3{X: 5, Y: -3, Z: 1}, Max: math.Vec3{X: 5, Y: -3, Z: 1}},
			want: math.Vec3{X: 5, Y: -3, Z: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Center(); got != tt.want {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox_Size(t *testing.T) {
	box := BoundingBox{Min: math.Vec3{X: -1, Y: 0, Z: 2}, Max: math.Vec3{X: 1, Y: 4, Z: 2}}
	want := math.Vec3{X: 2, Y: 4, Z: 0}
	if got := box.Size(); got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}
}

func TestNewMesh_Bounds(t *testing.T) {
	mesh := NewMesh([]Vertex{
		{Position: math.Vec3{X: 3, Y: -2, Z: 0}},
		{Position: math.Vec3{X: -1, Y: 5, Z: 7}},
		{Position: math.Vec3{X: 0, Y: 0, Z: -4}},
	}, []uint32{0, 1, 2})

	b := mesh.Bounds()
	wantMin := math.Vec3{X: -1, Y: -2, Z: -4}
	wantMax := math.Vec3{X: 3, Y: 5, Z: 7}
	if b.Min != wantMin {
		t.Errorf("Bounds().Min = %v, want %v", b.Min, wantMin)
	}
	if b.Max != wantMax {
		t.Errorf("Bounds().Max = %v, want %v", b.Max, wantMax)
	}
}

func TestNewMesh_EmptyBounds(t *testing.T) {
	mesh := NewMesh(nil, nil)
	if b := mesh.Bounds(); b.Min != (math.Vec3{}) || b.Max != (math.Vec3{}) {
		t.Errorf("empty mesh Bounds() = %+v, want zero box", b)
	}
}

func TestMesh_Interleaved(t *testing.T) {
	mesh := NewMesh([]Vertex{
		{
			Position: math.Vec3{X: 1, Y: 2, Z: 3},
			Normal:   math.Vec3{X: 0, Y: 1, Z: 0},
			UV:       math.Vec2{X: 0.25, Y: 0.75},
		},
	}, []uint32{0})

	data := mesh.Interleaved()
	if len(data) != VertexFloats {
		t.Fatalf("Interleaved() length = %d, want %d", len(data), VertexFloats)
	}
	want := []float32{1, 2, 3, 0, 1, 0, 0.25, 0.75}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("Interleaved()[%d] = %f, want %f", i, data[i], want[i])
		}
	}
}
