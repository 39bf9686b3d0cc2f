package render

import (
	"errors"
	"io"

	"github.com/soypat/glgl/math/ms3"
)

// RenderAll drains r and returns every triangle read. Reaching io.EOF is
// not an error. A Renderer that returns no triangles and no error fails
// with io.ErrNoProgress.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var model []ms3.Triangle
	buf := make([]ms3.Triangle, 1024)
	for {
		n, err := r.ReadTriangles(buf)
		model = append(model, buf[:n]...)
		switch {
		case errors.Is(err, io.EOF):
			return model, nil
		case err != nil:
			return model, err
		case n == 0:
			return model, io.ErrNoProgress
		}
	}
}
