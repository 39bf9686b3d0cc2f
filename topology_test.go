package meshrefine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

func TestMakeEdge(t *testing.T) {
	if makeEdge(3, 1) != makeEdge(1, 3) {
		t.Error("edge key depends on traversal direction")
	}
	if e := makeEdge(7, 2); e[0] != 2 || e[1] != 7 {
		t.Errorf("got %v, want lower index first", e)
	}
}

func TestBuildTopology(t *testing.T) {
	// Square fan of two triangles sharing diagonal (0,2).
	vertices := []ms3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	topo, err := buildTopology(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	if len(topo.edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(topo.edges))
	}
	wantOrder := []edge{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {0, 3}}
	for i, want := range wantOrder {
		if topo.edges[i].e != want {
			t.Errorf("edge %d: got %v, want %v", i, topo.edges[i].e, want)
		}
		if topo.edgeIdx[want] != uint32(i) {
			t.Errorf("edge %v mapped to %d, want %d", want, topo.edgeIdx[want], i)
		}
	}
	diag := topo.edges[topo.edgeIdx[edge{0, 2}]]
	if diag.nopp != 2 || diag.opp != [2]uint32{1, 3} {
		t.Errorf("diagonal opposite vertices: got %v (n=%d), want [1 3]", diag.opp, diag.nopp)
	}
	for _, e := range []edge{{0, 1}, {1, 2}, {2, 3}, {0, 3}} {
		if n := topo.edges[topo.edgeIdx[e]].nopp; n != 1 {
			t.Errorf("boundary edge %v: got %d opposite vertices", e, n)
		}
	}
	// Vertex 0 and 2 touch both triangles, 1 and 3 only one.
	wantValence := []int{4, 2, 4, 2}
	for i, want := range wantValence {
		if topo.valence[i] != want {
			t.Errorf("vertex %d valence: got %d, want %d", i, topo.valence[i], want)
		}
	}
	// Neighbors of vertex 1 are 0 and 2.
	if want := ms3.Add(vertices[0], vertices[2]); topo.neighborSum[1] != want {
		t.Errorf("vertex 1 neighbor sum: got %v, want %v", topo.neighborSum[1], want)
	}
	wantChildren := []uint32{
		0, 4, 6, 1, 5, 4, 2, 6, 5, 4, 5, 6,
		0, 6, 8, 2, 7, 6, 3, 8, 7, 6, 7, 8,
	}
	if len(topo.children) != len(wantChildren) {
		t.Fatalf("got %d child indices, want %d", len(topo.children), len(wantChildren))
	}
	for i := range wantChildren {
		if topo.children[i] != wantChildren[i] {
			t.Fatalf("child index %d: got %d, want %d", i, topo.children[i], wantChildren[i])
		}
	}
}

func TestFirstNonManifold(t *testing.T) {
	vertices := []ms3.Vec{{}, {X: 1}, {Y: 1}, {Y: -1}, {Z: 1}}
	topo, err := buildTopology(vertices, []uint32{0, 1, 2, 0, 1, 3, 0, 1, 4})
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := topo.firstNonManifold()
	if !ok {
		t.Fatal("expected non-manifold edge")
	}
	if rec.e != (edge{0, 1}) || rec.nopp != 3 {
		t.Errorf("got edge %v shared by %d triangles", rec.e, rec.nopp)
	}
	if rec.opp != [2]uint32{2, 3} {
		t.Errorf("first two opposite vertices: got %v", rec.opp)
	}
}

func TestMidpointRules(t *testing.T) {
	vertices := []ms3.Vec{{X: 1}, {Y: 2}, {Z: 4}, {X: -8}}
	var s Subdivider
	boundary := s.midpoint(vertices, edgeRecord{e: edge{0, 1}, opp: [2]uint32{2}, nopp: 1})
	if want := (ms3.Vec{X: 0.5, Y: 1}); boundary != want {
		t.Errorf("boundary midpoint: got %v, want %v", boundary, want)
	}
	interior := s.midpoint(vertices, edgeRecord{e: edge{0, 1}, opp: [2]uint32{2, 3}, nopp: 2})
	want := ms3.Vec{X: 3./8 - 1, Y: 6. / 8, Z: 4. / 8}
	if !equalElem(interior, want, 1e-6) {
		t.Errorf("interior midpoint: got %v, want %v", interior, want)
	}
}

func TestSmoothVertex(t *testing.T) {
	for _, test := range []struct {
		k    int
		old  ms3.Vec
		sum  ms3.Vec
		want ms3.Vec
	}{
		// beta = 3/16: 7/16*old + 3/16*sum
		{k: 3, old: ms3.Vec{X: 16}, sum: ms3.Vec{Y: 16}, want: ms3.Vec{X: 7, Y: 3}},
		// beta = 3/32: 5/8*old + 3/32*sum
		{k: 4, old: ms3.Vec{X: 8}, sum: ms3.Vec{Z: 32}, want: ms3.Vec{X: 5, Z: 3}},
		// beta = 1/16: 10/16*old + 1/16*sum
		{k: 6, old: ms3.Vec{X: 16}, sum: ms3.Vec{X: -32}, want: ms3.Vec{X: 8}},
	} {
		got := smoothVertex(test.old, test.sum, test.k)
		if !equalElem(got, test.want, 1e-5) {
			t.Errorf("k=%d: got %v, want %v", test.k, got, test.want)
		}
	}
}

func equalElem(a, b ms3.Vec, tol float32) bool {
	d := ms3.Sub(a, b)
	return math32.Abs(d.X) <= tol && math32.Abs(d.Y) <= tol && math32.Abs(d.Z) <= tol
}
