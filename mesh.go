// Package meshrefine refines coarse triangulated surfaces such as the
// environment meshes produced by scene reconstruction. It offers two
// independent buffer transforms: Expand, which offsets every vertex along its
// area-weighted normal, and Subdivide, which applies Loop-style subdivision
// rounds to vertex and triangle index buffers.
package meshrefine

import (
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// Mesh holds indexed triangle buffers. Every consecutive triple of Indices
// is one triangle referencing positions in Vertices.
type Mesh struct {
	Vertices []ms3.Vec
	Indices  []uint32
}

// NumTriangles returns the amount of triangles in the index buffer.
func (m Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// Triangle returns the ith triangle of the mesh. It panics if i is out of range
// or if the triangle references a vertex not present in m.
func (m Mesh) Triangle(i int) ms3.Triangle {
	idx := m.Indices[3*i : 3*i+3]
	return ms3.Triangle{m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]}
}

// Triangles returns the mesh as a triangle soup. The mesh should be valid.
func (m Mesh) Triangles() []ms3.Triangle {
	t := make([]ms3.Triangle, m.NumTriangles())
	for i := range t {
		t[i] = m.Triangle(i)
	}
	return t
}

// Clone returns a deep copy of m.
func (m Mesh) Clone() Mesh {
	return Mesh{
		Vertices: append([]ms3.Vec(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// Validate checks the index buffer describes triangles over existing vertices
// whose three corners are distinct vertex ids.
func (m Mesh) Validate() error {
	return validate(m.Vertices, m.Indices)
}

// Bounds returns the axis aligned bounding box of all vertices. The zero Box
// is returned for a mesh with no vertices.
func (m Mesh) Bounds() ms3.Box {
	if len(m.Vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min = ms3.MinElem(bb.Min, v)
		bb.Max = ms3.MaxElem(bb.Max, v)
	}
	return bb
}

// Expanded returns a copy of m with every vertex offset by distance along its
// vertex normal. See Expand.
func (m Mesh) Expanded(distance float32) (Mesh, error) {
	dst := m.Clone()
	if err := Expand(dst.Vertices, dst.Indices, distance); err != nil {
		return Mesh{}, err
	}
	return dst, nil
}

// Subdivided returns the result of applying iterations rounds of subdivision
// to m with the default Subdivider. m is not modified.
func (m Mesh) Subdivided(iterations int) (Mesh, error) {
	v, idx, err := Subdivide(m.Vertices, m.Indices, iterations)
	if err != nil {
		return Mesh{}, err
	}
	return Mesh{Vertices: v, Indices: idx}, nil
}

func validate(vertices []ms3.Vec, indices []uint32) error {
	if len(indices)%3 != 0 {
		return invalidf("index buffer length %d not a multiple of 3", len(indices))
	}
	if int64(len(vertices)) > math.MaxUint32 {
		return &TopologyError{Kind: ErrMeshTooLarge, Msg: "vertex count exceeds uint32 index range"}
	}
	nv := uint32(len(vertices))
	for i, idx := range indices {
		if idx >= nv {
			return invalidf("triangle %d references vertex %d, only %d vertices present", i/3, idx, nv)
		}
	}
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || c == a {
			return invalidf("triangle %d repeats a vertex: (%d,%d,%d)", i/3, a, b, c)
		}
	}
	return nil
}
