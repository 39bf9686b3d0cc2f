package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/meshrefine"
	"github.com/soypat/meshrefine/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld builds an indexed mesh from a triangle soup such as the contents of an
// STL file. Vertices closer than vertexTol are merged into one. vertexTol
// should be of the order of 1/1000th of the size of the smallest triangle in
// the model. If set to 0 then it is inferred automatically.
//
// Vertices are compared per axis, so two vertices merge when every component
// differs by at most vertexTol. The first vertex seen keeps its position.
// Triangle winding is preserved. Welding fails if the tolerance collapses
// two corners of a triangle into the same vertex.
func Weld(model []ms3.Triangle, vertexTolOrZero float32) (meshrefine.Mesh, error) {
	if len(model) == 0 {
		return meshrefine.Mesh{}, errors.New("empty triangle slice")
	}
	tol := float64(vertexTolOrZero)
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	points := make(d3.Set, 0, 3*len(model))
	for i := range model {
		for j := range model[i] {
			vert := d3.R3(model[i][j])
			points = append(points, vert)
			side2 := r3.Norm2(r3.Sub(d3.R3(model[i][(j+1)%3]), vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return meshrefine.Mesh{}, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return meshrefine.Mesh{}, errors.New("degenerate model: triangle with zero length side")
	}
	size := r3.Sub(points.Max(), points.Min())
	div := d3.Max(size)/tol + 1e-12
	if div > math.MaxInt64/2 {
		return meshrefine.Mesh{}, errors.New("tolerance too small. overflowed int64")
	}

	m := meshrefine.Mesh{
		Indices: make([]uint32, 0, 3*len(model)),
	}
	// Vertex indices bucketed by tolerance sized grid cell. Vertices within
	// tol of each other lie in the same or an adjacent cell.
	cells := make(map[[3]int64][]uint32)
	ri := 1 / tol
	for i, tri := range model {
		var idx [3]uint32
		for j, vert := range tri {
			p := d3.R3(vert)
			cell := d3.Floor(r3.Scale(ri, p))
			vertexIdx, ok := nearbyVertex(cells, m.Vertices, cell, p, tol)
			if !ok {
				if int64(len(m.Vertices)) >= math.MaxUint32 {
					return meshrefine.Mesh{}, meshrefine.ErrMeshTooLarge
				}
				vertexIdx = uint32(len(m.Vertices))
				cells[cell] = append(cells[cell], vertexIdx)
				m.Vertices = append(m.Vertices, vert)
			}
			idx[j] = vertexIdx
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[2] == idx[0] {
			return meshrefine.Mesh{}, fmt.Errorf("vertex tolerance %g collapses triangle %d", tol, i)
		}
		m.Indices = append(m.Indices, idx[:]...)
	}
	return m, nil
}

// nearbyVertex returns the first stored vertex within tol of p, searching
// cell and its 26 neighbors.
func nearbyVertex(cells map[[3]int64][]uint32, vertices []ms3.Vec, cell [3]int64, p r3.Vec, tol float64) (uint32, bool) {
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, vi := range cells[[3]int64{cell[0] + dx, cell[1] + dy, cell[2] + dz}] {
					if d3.EqualWithin(d3.R3(vertices[vi]), p, tol) {
						return vi, true
					}
				}
			}
		}
	}
	return 0, false
}
