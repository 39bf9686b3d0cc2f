package meshrefine_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/meshrefine"
)

// tetrahedron returns a regular tetrahedron centered at the origin with
// outward facing counter-clockwise triangles.
func tetrahedron() meshrefine.Mesh {
	return meshrefine.Mesh{
		Vertices: []ms3.Vec{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
			0, 3, 1,
			1, 3, 2,
		},
	}
}

// cube returns a unit cube centered at the origin. Vertex i sits at
// corner (i>>2&1, i>>1&1, i&1) - 0.5.
func cube() meshrefine.Mesh {
	var m meshrefine.Mesh
	for i := 0; i < 8; i++ {
		m.Vertices = append(m.Vertices, ms3.Vec{
			X: float32(i>>2&1) - 0.5,
			Y: float32(i>>1&1) - 0.5,
			Z: float32(i&1) - 0.5,
		})
	}
	m.Indices = []uint32{
		0, 1, 3, 0, 3, 2,
		4, 6, 7, 4, 7, 5,
		0, 4, 5, 0, 5, 1,
		2, 3, 7, 2, 7, 6,
		0, 2, 6, 0, 6, 4,
		1, 5, 7, 1, 7, 3,
	}
	return m
}

// quad returns an open square in the z=0 plane made of two triangles.
func quad() meshrefine.Mesh {
	return meshrefine.Mesh{
		Vertices: []ms3.Vec{
			{X: 0, Y: 0},
			{X: 1, Y: 0},
			{X: 1, Y: 1},
			{X: 0, Y: 1},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func countEdges(indices []uint32) int {
	edges := make(map[[2]uint32]struct{})
	for i := 0; i < len(indices); i += 3 {
		for j := 0; j < 3; j++ {
			a, b := indices[i+j], indices[i+(j+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}] = struct{}{}
		}
	}
	return len(edges)
}

func equalMeshes(t *testing.T, got, want meshrefine.Mesh, tol float32) {
	t.Helper()
	if len(got.Vertices) != len(want.Vertices) || len(got.Indices) != len(want.Indices) {
		t.Fatalf("mesh size mismatch: got %d vertices/%d indices, want %d/%d",
			len(got.Vertices), len(got.Indices), len(want.Vertices), len(want.Indices))
	}
	for i := range want.Indices {
		if got.Indices[i] != want.Indices[i] {
			t.Fatalf("index %d mismatch: got %d, want %d", i, got.Indices[i], want.Indices[i])
		}
	}
	for i := range want.Vertices {
		g, w := got.Vertices[i], want.Vertices[i]
		if g != w && (tol == 0 || !equalElem(g, w, tol)) {
			t.Errorf("vertex %d mismatch: got %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
	}
}

func equalElem(a, b ms3.Vec, tol float32) bool {
	d := ms3.Sub(a, b)
	return math32.Abs(d.X) <= tol && math32.Abs(d.Y) <= tol && math32.Abs(d.Z) <= tol
}
