package meshrefine

import (
	"fmt"
	"log/slog"

	"github.com/soypat/glgl/math/ms3"
)

// NonManifoldPolicy selects how a Subdivider treats edges shared by more
// than two triangles.
type NonManifoldPolicy uint8

const (
	// NonManifoldReject fails subdivision with ErrNonManifoldEdge.
	NonManifoldReject NonManifoldPolicy = iota
	// NonManifoldFirstTwo positions the midpoint with the interior edge rule
	// using the first two opposite vertices encountered.
	NonManifoldFirstTwo
	// NonManifoldBoundary positions the midpoint with the boundary edge rule.
	NonManifoldBoundary
)

func (p NonManifoldPolicy) String() string {
	switch p {
	case NonManifoldReject:
		return "reject"
	case NonManifoldFirstTwo:
		return "firsttwo"
	case NonManifoldBoundary:
		return "boundary"
	}
	return fmt.Sprintf("NonManifoldPolicy(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p NonManifoldPolicy) MarshalText() ([]byte, error) {
	if p > NonManifoldBoundary {
		return nil, fmt.Errorf("unknown non-manifold policy %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so the policy can be
// used with flag.TextVar.
func (p *NonManifoldPolicy) UnmarshalText(b []byte) error {
	for c := NonManifoldReject; c <= NonManifoldBoundary; c++ {
		if string(b) == c.String() {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown non-manifold policy %q", b)
}

// Subdivider performs Loop-style subdivision. The zero value is ready for use
// and rejects non-manifold meshes.
type Subdivider struct {
	NonManifold NonManifoldPolicy
}

// Subdivide applies iterations rounds of subdivision with the zero Subdivider.
func Subdivide(vertices []ms3.Vec, indices []uint32, iterations int) ([]ms3.Vec, []uint32, error) {
	return Subdivider{}.Subdivide(vertices, indices, iterations)
}

// Subdivide applies iterations rounds of subdivision and returns the new
// vertex and index buffers. Each round splits every triangle into four, adds
// one vertex per distinct edge and smooths the positions of existing vertices.
// The output vertex buffer holds the repositioned input vertices followed by
// the edge midpoints in the order the edges were first met in the index buffer.
//
// The inputs are never modified. Zero iterations returns copies of the inputs.
// Since the triangle count quadruples every round callers must bound iterations.
func (s Subdivider) Subdivide(vertices []ms3.Vec, indices []uint32, iterations int) ([]ms3.Vec, []uint32, error) {
	if iterations < 0 {
		return nil, nil, ErrNegativeIterations
	}
	if err := validate(vertices, indices); err != nil {
		return nil, nil, err
	}
	if iterations == 0 {
		return append([]ms3.Vec(nil), vertices...), append([]uint32(nil), indices...), nil
	}
	log := Logger()
	for i := 1; i <= iterations; i++ {
		var (
			stats roundStats
			err   error
		)
		vertices, indices, stats, err = s.round(vertices, indices)
		if err != nil {
			return nil, nil, fmt.Errorf("subdivision round %d: %w", i, err)
		}
		log.Debug("subdivision round",
			slog.Int("round", i),
			slog.Int("vertices", len(vertices)),
			slog.Int("triangles", len(indices)/3),
			slog.Int("edges", stats.edges),
			slog.Int("boundary_edges", stats.boundary),
		)
		if stats.lowValence > 0 {
			log.Warn("vertices left unmodified due to low valence",
				slog.Int("round", i), slog.Int("count", stats.lowValence))
		}
		if stats.nonManifold > 0 {
			log.Warn("non-manifold edges resolved by policy",
				slog.Int("round", i), slog.Int("count", stats.nonManifold),
				slog.String("policy", s.NonManifold.String()))
		}
	}
	return vertices, indices, nil
}

type roundStats struct {
	edges       int
	boundary    int
	nonManifold int
	lowValence  int
}

// round performs a single subdivision round over valid buffers.
func (s Subdivider) round(vertices []ms3.Vec, indices []uint32) ([]ms3.Vec, []uint32, roundStats, error) {
	var stats roundStats
	topo, err := buildTopology(vertices, indices)
	if err != nil {
		return nil, nil, stats, err
	}
	if rec, ok := topo.firstNonManifold(); ok && s.NonManifold == NonManifoldReject {
		return nil, nil, stats, nonManifoldError(rec.e, rec.nopp)
	}
	stats.edges = len(topo.edges)
	nv := len(vertices)
	out := make([]ms3.Vec, nv+len(topo.edges))

	for i, rec := range topo.edges {
		switch {
		case rec.nopp == 1:
			stats.boundary++
		case rec.nopp > 2:
			stats.nonManifold++
		}
		out[nv+i] = s.midpoint(vertices, rec)
	}

	for i, v := range vertices {
		k := topo.valence[i]
		if k < 2 {
			out[i] = v
			stats.lowValence++
			continue
		}
		out[i] = smoothVertex(v, topo.neighborSum[i], k)
	}
	return out, topo.children, stats, nil
}

// midpoint returns the position of the vertex inserted on an edge.
// Interior edges are pulled toward their opposite vertices:
//
//	3/8*(a+b) + 1/8*(c+d)
//
// Boundary edges use the plain average of their endpoints.
func (s Subdivider) midpoint(vertices []ms3.Vec, rec edgeRecord) ms3.Vec {
	a, b := vertices[rec.e[0]], vertices[rec.e[1]]
	interior := rec.nopp == 2 || (rec.nopp > 2 && s.NonManifold == NonManifoldFirstTwo)
	if !interior {
		return ms3.Scale(0.5, ms3.Add(a, b))
	}
	c, d := vertices[rec.opp[0]], vertices[rec.opp[1]]
	return ms3.Add(ms3.Scale(3./8, ms3.Add(a, b)), ms3.Scale(1./8, ms3.Add(c, d)))
}

// smoothVertex repositions a vertex with neighbor count k using Warren's
// weights: beta = 3/16 for k == 3 and 3/(8k) otherwise.
func smoothVertex(old, neighborSum ms3.Vec, k int) ms3.Vec {
	var beta float32
	if k == 3 {
		beta = 3. / 16
	} else {
		beta = 3 / (8 * float32(k))
	}
	return ms3.Add(ms3.Scale(1-float32(k)*beta, old), ms3.Scale(beta, neighborSum))
}
