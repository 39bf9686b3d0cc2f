// Command meshrefine reads a binary STL surface, optionally offsets it along
// its vertex normals, subdivides it and writes the refined surface as STL.
//
// Usage:
//
//	meshrefine -in room.stl -out room_fine.stl -expand 0.02 -iterations 2
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/meshrefine"
	"github.com/soypat/meshrefine/helpers/meshstat"
	"github.com/soypat/meshrefine/render"
)

const maxIterations = 6

type config struct {
	in, out     string
	expand      float64
	iterations  int
	weldTol     float64
	expandAfter bool
	nonManifold meshrefine.NonManifoldPolicy
	png         string
	pngW, pngH  int
	verbose     bool
	allowHuge   bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "meshrefine:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("meshrefine", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.in, "in", "", "input binary STL file")
	fs.StringVar(&cfg.out, "out", "", "output binary STL file")
	fs.Float64Var(&cfg.expand, "expand", 0, "signed distance to offset vertices along their normals")
	fs.BoolVar(&cfg.expandAfter, "expand-after", false, "expand after subdividing instead of before")
	fs.IntVar(&cfg.iterations, "iterations", 1, "subdivision rounds")
	fs.Float64Var(&cfg.weldTol, "weld", 0, "vertex welding tolerance, 0 infers it from the smallest edge")
	fs.TextVar(&cfg.nonManifold, "nonmanifold", meshrefine.NonManifoldReject, "non-manifold edge policy: reject, firsttwo or boundary")
	fs.StringVar(&cfg.png, "png", "", "optional PNG preview output file")
	fs.IntVar(&cfg.pngW, "png-width", 768, "preview width in pixels")
	fs.IntVar(&cfg.pngH, "png-height", 432, "preview height in pixels")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	fs.BoolVar(&cfg.allowHuge, "allow-huge", false, fmt.Sprintf("allow more than %d subdivision rounds", maxIterations))
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	switch {
	case cfg.in == "":
		return cfg, errors.New("missing -in file")
	case cfg.out == "" && cfg.png == "":
		return cfg, errors.New("nothing to do: set -out and/or -png")
	case cfg.iterations < 0:
		return cfg, meshrefine.ErrNegativeIterations
	case cfg.iterations > maxIterations && !cfg.allowHuge:
		// Triangle count quadruples every round.
		return cfg, fmt.Errorf("%d rounds multiply triangle count by %d, pass -allow-huge to proceed", cfg.iterations, 1<<(2*cfg.iterations))
	}
	return cfg, nil
}

func run(args []string, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	meshrefine.SetLogger(log)
	defer meshrefine.SetLogger(nil)

	fp, err := os.Open(cfg.in)
	if err != nil {
		return err
	}
	model, err := render.ReadSTL(fp)
	fp.Close()
	if errors.Is(err, render.ErrNormalMismatch) {
		log.Warn("input normals disagree with triangle winding", slog.String("file", cfg.in))
	} else if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.in, err)
	}
	input, err := render.Weld(model, float32(cfg.weldTol))
	if err != nil {
		return err
	}
	logStats(log, "input", input)

	m := input
	if !cfg.expandAfter {
		m, err = m.Expanded(float32(cfg.expand))
		if err != nil {
			return err
		}
	}
	sd := meshrefine.Subdivider{NonManifold: cfg.nonManifold}
	m.Vertices, m.Indices, err = sd.Subdivide(m.Vertices, m.Indices, cfg.iterations)
	if err != nil {
		return err
	}
	if cfg.expandAfter {
		err = meshrefine.Expand(m.Vertices, m.Indices, float32(cfg.expand))
		if err != nil {
			return err
		}
	}
	logStats(log, "output", m)
	if maxDev, meanDev, err := meshstat.Deviation(input, m); err == nil {
		log.Info("vertex deviation from input", slog.Float64("max", maxDev), slog.Float64("mean", meanDev))
	}

	if cfg.out != "" {
		r, err := render.NewMeshRenderer(m)
		if err != nil {
			return err
		}
		if err := render.CreateSTL(cfg.out, r); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.out, err)
		}
	}
	if cfg.png != "" {
		img, err := render.Preview(m, cfg.pngW, cfg.pngH, render.DefaultView)
		if err != nil {
			return err
		}
		if err := fauxgl.SavePNG(cfg.png, img); err != nil {
			return err
		}
	}
	return nil
}

func logStats(log *slog.Logger, name string, m meshrefine.Mesh) {
	s, err := meshstat.Compute(m)
	if err != nil {
		log.Error("mesh statistics", slog.String("mesh", name), slog.String("err", err.Error()))
		return
	}
	log.Info("mesh",
		slog.String("mesh", name),
		slog.Int("vertices", s.Vertices),
		slog.Int("triangles", s.Triangles),
		slog.Int("edges", s.Edges),
		slog.Int("euler", s.Euler()),
		slog.Bool("closed", s.Closed()),
		slog.Float64("area", s.Area),
	)
}
