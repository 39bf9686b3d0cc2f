package meshrefine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTopology is the kind of error returned when the index buffer
	// does not describe triangles over the vertex buffer.
	ErrInvalidTopology = errors.New("invalid mesh topology")
	// ErrNonManifoldEdge is the kind of error returned when an edge is shared by
	// more than two triangles and the Subdivider rejects non-manifold input.
	ErrNonManifoldEdge = errors.New("non-manifold edge")
	// ErrMeshTooLarge is returned when a mesh or its refinement can no longer
	// be addressed with 32 bit indices.
	ErrMeshTooLarge = errors.New("mesh too large for uint32 indices")
	// ErrNegativeIterations is returned by Subdivide for iterations < 0.
	ErrNegativeIterations = errors.New("negative subdivision iterations")
)

// TopologyError describes malformed mesh input. Kind is one of the
// package's sentinel errors and can be tested for with errors.Is.
type TopologyError struct {
	Kind error
	Msg  string
}

func (e *TopologyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *TopologyError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &TopologyError{Kind: ErrInvalidTopology, Msg: fmt.Sprintf(format, args...)}
}

func nonManifoldError(e edge, n int) error {
	return &TopologyError{
		Kind: ErrNonManifoldEdge,
		Msg:  fmt.Sprintf("edge (%d,%d) shared by %d triangles", e[0], e[1], n),
	}
}
