package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/meshrefine"
	"github.com/soypat/meshrefine/render"
	"github.com/stretchr/testify/require"
)

func writeTetrahedron(t *testing.T, dir string) string {
	t.Helper()
	m := meshrefine.Mesh{
		Vertices: []ms3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}},
		Indices:  []uint32{0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2},
	}
	path := filepath.Join(dir, "tetra.stl")
	fp, err := os.Create(path)
	require.NoError(t, err)
	defer fp.Close()
	require.NoError(t, render.WriteSTL(fp, m.Triangles()))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeTetrahedron(t, dir)
	out := filepath.Join(dir, "out.stl")
	png := filepath.Join(dir, "out.png")
	var logs bytes.Buffer
	err := run([]string{"-in", in, "-out", out, "-png", png, "-png-width", "64", "-png-height", "48",
		"-iterations", "2", "-expand", "0.1", "-v"}, &logs)
	require.NoError(t, err)
	require.Contains(t, logs.String(), "subdivision round")
	require.Contains(t, logs.String(), "triangles=64")

	fp, err := os.Open(out)
	require.NoError(t, err)
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	require.NoError(t, err)
	require.Len(t, model, 64)

	info, err := os.Stat(png)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestRunExpandAfter(t *testing.T) {
	dir := t.TempDir()
	in := writeTetrahedron(t, dir)
	out := filepath.Join(dir, "out.stl")
	err := run([]string{"-in", in, "-out", out, "-iterations", "0", "-expand", "1", "-expand-after"}, &bytes.Buffer{})
	require.NoError(t, err)

	fp, err := os.Open(out)
	require.NoError(t, err)
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	require.NoError(t, err)
	require.Len(t, model, 4)
	// Vertex (1,1,1) moved one unit outward.
	want := ms3.Scale(1+1/ms3.Norm(ms3.Vec{X: 1, Y: 1, Z: 1}), ms3.Vec{X: 1, Y: 1, Z: 1})
	require.InDelta(t, want.X, model[0][0].X, 1e-5)
}

func TestParseFlags(t *testing.T) {
	for _, test := range []struct {
		name string
		args []string
	}{
		{name: "missing input", args: []string{"-out", "a.stl"}},
		{name: "missing output", args: []string{"-in", "a.stl"}},
		{name: "negative iterations", args: []string{"-in", "a.stl", "-out", "b.stl", "-iterations", "-1"}},
		{name: "too many iterations", args: []string{"-in", "a.stl", "-out", "b.stl", "-iterations", "9"}},
		{name: "bad policy", args: []string{"-in", "a.stl", "-out", "b.stl", "-nonmanifold", "clamp"}},
	} {
		_, err := parseFlags(test.args, &bytes.Buffer{})
		require.Error(t, err, test.name)
	}
	cfg, err := parseFlags([]string{"-in", "a.stl", "-out", "b.stl", "-iterations", "9", "-allow-huge", "-nonmanifold", "firsttwo"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, meshrefine.NonManifoldFirstTwo, cfg.nonManifold)
	require.Equal(t, 9, cfg.iterations)
}

func TestRunNonManifoldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fin.stl")
	fin := []ms3.Triangle{
		{{}, {X: 1}, {Y: 1}},
		{{}, {X: 1}, {Y: -1}},
		{{}, {X: 1}, {Z: 1}},
	}
	var b bytes.Buffer
	require.NoError(t, render.WriteSTL(&b, fin))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))

	err := run([]string{"-in", path, "-out", filepath.Join(dir, "out.stl")}, &bytes.Buffer{})
	require.ErrorIs(t, err, meshrefine.ErrNonManifoldEdge)

	err = run([]string{"-in", path, "-out", filepath.Join(dir, "out.stl"), "-nonmanifold", "boundary"}, &bytes.Buffer{})
	require.NoError(t, err)
}
