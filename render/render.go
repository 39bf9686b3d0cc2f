package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/meshrefine"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once all
// triangles have been read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (int, error)
}

type meshRenderer struct {
	m    meshrefine.Mesh
	next int
}

// NewMeshRenderer returns a Renderer over the triangles of an indexed mesh.
// The mesh buffers must not be modified while the Renderer is in use.
func NewMeshRenderer(m meshrefine.Mesh) (Renderer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &meshRenderer{m: m}, nil
}

func (r *meshRenderer) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	nt := r.m.NumTriangles()
	for n < len(dst) && r.next < nt {
		dst[n] = r.m.Triangle(r.next)
		n++
		r.next++
	}
	if r.next == nt {
		return n, io.EOF
	}
	return n, nil
}
