package meshrefine

import (
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// edge is an undirected mesh edge. The lower vertex index is stored first
// so that both traversal directions yield the same map key.
type edge [2]uint32

func makeEdge(a, b uint32) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// edgeRecord gathers the triangles incident on an edge during one round.
type edgeRecord struct {
	e edge
	// opp holds the first two opposite vertices registered on the edge.
	opp [2]uint32
	// nopp counts all opposite vertices registered, which is the
	// amount of triangles sharing the edge.
	nopp int
}

// topology is built from the input buffers of a single subdivision round
// and discarded once the round's output is produced.
type topology struct {
	// edgeIdx maps an edge to its position in edges. The midpoint vertex of
	// edges[i] is allocated at index len(vertices)+i of the round output.
	edgeIdx map[edge]uint32
	edges   []edgeRecord
	// neighborSum and valence accumulate the adjacency of input vertices. A
	// neighbor is counted once per triangle edge joining the two, so on
	// closed manifold meshes every neighbor is counted twice.
	neighborSum []ms3.Vec
	valence     []int
	// children is the output index buffer, 4 triangles per input triangle.
	children []uint32
}

// buildTopology registers every triangle edge of indices and emits the
// child triangles of each input triangle. Indices must be valid.
func buildTopology(vertices []ms3.Vec, indices []uint32) (*topology, error) {
	nv := uint32(len(vertices))
	t := &topology{
		edgeIdx:     make(map[edge]uint32, len(indices)/2),
		edges:       make([]edgeRecord, 0, len(indices)/2),
		neighborSum: make([]ms3.Vec, nv),
		valence:     make([]int, nv),
		children:    make([]uint32, 0, 4*len(indices)),
	}
	for i := 0; i < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		var mid [3]uint32
		for j := range tri {
			p0, p1, opposite := tri[j], tri[(j+1)%3], tri[(j+2)%3]
			t.neighborSum[p0] = ms3.Add(t.neighborSum[p0], vertices[p1])
			t.neighborSum[p1] = ms3.Add(t.neighborSum[p1], vertices[p0])
			t.valence[p0]++
			t.valence[p1]++

			e := makeEdge(p0, p1)
			ei, ok := t.edgeIdx[e]
			if !ok {
				if uint64(nv)+uint64(len(t.edges)) > math.MaxUint32 {
					return nil, &TopologyError{Kind: ErrMeshTooLarge, Msg: "midpoint vertex index overflows uint32"}
				}
				ei = uint32(len(t.edges))
				t.edgeIdx[e] = ei
				t.edges = append(t.edges, edgeRecord{e: e})
			}
			rec := &t.edges[ei]
			if rec.nopp < len(rec.opp) {
				rec.opp[rec.nopp] = opposite
			}
			rec.nopp++
			mid[j] = nv + ei
		}
		// Corner triangles then center triangle, all wound like the parent.
		t.children = append(t.children,
			tri[0], mid[0], mid[2],
			tri[1], mid[1], mid[0],
			tri[2], mid[2], mid[1],
			mid[0], mid[1], mid[2],
		)
	}
	return t, nil
}

// firstNonManifold returns the first allocated edge shared by more than
// two triangles.
func (t *topology) firstNonManifold() (edgeRecord, bool) {
	for _, rec := range t.edges {
		if rec.nopp > 2 {
			return rec, true
		}
	}
	return edgeRecord{}, false
}
