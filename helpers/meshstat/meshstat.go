// Package meshstat reports topological and geometric properties of indexed
// triangle meshes, useful to check refinement output against its input.
package meshstat

import (
	"errors"
	"math"

	"github.com/soypat/meshrefine"
	"github.com/soypat/meshrefine/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Stats summarizes a mesh.
type Stats struct {
	Vertices  int
	Edges     int
	Triangles int
	// BoundaryEdges counts edges belonging to a single triangle.
	BoundaryEdges int
	// NonManifoldEdges counts edges shared by more than two triangles.
	NonManifoldEdges int
	// Area is the total surface area.
	Area float64
	// Volume is the signed enclosed volume. It is only meaningful for
	// closed meshes and is positive for outward facing triangles.
	Volume float64
}

// Euler returns the Euler characteristic V - E + F. It is 2 for closed
// meshes of genus zero.
func (s Stats) Euler() int { return s.Vertices - s.Edges + s.Triangles }

// Closed reports whether every edge is shared by exactly two triangles.
func (s Stats) Closed() bool { return s.BoundaryEdges == 0 && s.NonManifoldEdges == 0 }

// Compute returns the statistics of m.
func Compute(m meshrefine.Mesh) (Stats, error) {
	if err := m.Validate(); err != nil {
		return Stats{}, err
	}
	s := Stats{
		Vertices:  len(m.Vertices),
		Triangles: m.NumTriangles(),
	}
	edges := make(map[[2]uint32]int, len(m.Indices)/2)
	for i := 0; i < len(m.Indices); i += 3 {
		tri := m.Indices[i : i+3]
		for j := range tri {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}]++
		}
		v0, v1, v2 := d3.R3(m.Vertices[tri[0]]), d3.R3(m.Vertices[tri[1]]), d3.R3(m.Vertices[tri[2]])
		s.Area += d3.TriangleArea(v0, v1, v2)
		s.Volume += d3.SignedVolume(v0, v1, v2)
	}
	s.Edges = len(edges)
	for _, n := range edges {
		switch {
		case n == 1:
			s.BoundaryEdges++
		case n > 2:
			s.NonManifoldEdges++
		}
	}
	return s, nil
}

// Deviation measures how far the vertices of m lie from the vertices of ref.
// It returns the largest and mean distance from each vertex of m to its
// nearest vertex in ref.
func Deviation(ref, m meshrefine.Mesh) (maxDist, meanDist float64, err error) {
	if len(ref.Vertices) == 0 || len(m.Vertices) == 0 {
		return 0, 0, errors.New("deviation requires vertices in both meshes")
	}
	pts := make(kdtree.Points, len(ref.Vertices))
	for i, v := range ref.Vertices {
		pts[i] = kdtree.Point{float64(v.X), float64(v.Y), float64(v.Z)}
	}
	tree := kdtree.New(pts, false)
	var sum float64
	for _, v := range m.Vertices {
		_, dist2 := tree.Nearest(kdtree.Point{float64(v.X), float64(v.Y), float64(v.Z)})
		dist := math.Sqrt(dist2)
		maxDist = math.Max(maxDist, dist)
		sum += dist
	}
	return maxDist, sum / float64(len(m.Vertices)), nil
}
