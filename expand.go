package meshrefine

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// expandTol is the magnitude below which expansion distances and accumulated
// normals are considered zero.
const expandTol = 1e-6

// Expand moves every vertex in place by distance along its area-weighted vertex
// normal. Normals are the normalized sum of the unnormalized face normals of
// the triangles sharing the vertex, so larger faces weigh more. Vertices not
// referenced by any triangle, or whose normals cancel out, are not moved.
// Positive distances move vertices outward for counter-clockwise wound meshes.
//
// indices is validated before vertices is modified.
func Expand(vertices []ms3.Vec, indices []uint32, distance float32) error {
	if err := validate(vertices, indices); err != nil {
		return err
	}
	if math32.Abs(distance) < expandTol {
		return nil
	}
	normals := vertexNormals(vertices, indices)
	for i, n := range normals {
		vertices[i] = ms3.Add(vertices[i], ms3.Scale(distance, n))
	}
	return nil
}

// vertexNormals returns the unit area-weighted normal of each vertex or
// the zero vector where it is undefined.
func vertexNormals(vertices []ms3.Vec, indices []uint32) []ms3.Vec {
	normals := make([]ms3.Vec, len(vertices))
	for i := 0; i < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := vertices[i0]
		n := ms3.Cross(ms3.Sub(vertices[i1], v0), ms3.Sub(vertices[i2], v0))
		normals[i0] = ms3.Add(normals[i0], n)
		normals[i1] = ms3.Add(normals[i1], n)
		normals[i2] = ms3.Add(normals[i2], n)
	}
	for i, n := range normals {
		mag := ms3.Norm(n)
		if mag <= expandTol {
			normals[i] = ms3.Vec{}
			continue
		}
		normals[i] = ms3.Scale(1/mag, n)
	}
	return normals
}
