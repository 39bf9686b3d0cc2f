package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/meshrefine"
	"github.com/soypat/meshrefine/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a preview. The mesh is fit into a bi-unit
// cube centered at the origin before rendering so View positions are given
// in that normalized space.
type View struct {
	// what position (point) to look at
	Lookat r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eyepos r3.Vec
	Far    float64
	Near   float64
	// Supersample renders at Supersample times the output resolution
	// and downsamples for antialiasing. Values below 1 are treated as 1.
	Supersample int
}

// DefaultView is an isometric view of the mesh with Z up.
var DefaultView = View{
	Up:          r3.Vec{Z: 1},
	Eyepos:      d3.Elem(3),
	Near:        1,
	Far:         10,
	Supersample: 2,
}

// Preview rasterizes the mesh with a Phong shader and returns the image.
func Preview(m meshrefine.Mesh, width, height int, view View) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("preview dimensions must be positive")
	}
	r, err := NewMeshRenderer(m)
	if err != nil {
		return nil, err
	}
	model, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(model) == 0 {
		return nil, errors.New("no triangles to preview")
	}
	const fovy = 30 // vertical field of view in degrees
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = fauxgl.V(view.Eyepos.X, view.Eyepos.Y, view.Eyepos.Z) // camera position
		center = fauxgl.V(view.Lookat.X, view.Lookat.Y, view.Lookat.Z) // view center position
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)             // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()                  // light direction
		color  = fauxgl.HexColor("#468966")                            // object color
	)
	triangles := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		triangles[i] = fauxgl.NewTriangleForPoints(
			fauxgl.V(float64(t[0].X), float64(t[0].Y), float64(t[0].Z)),
			fauxgl.V(float64(t[1].X), float64(t[1].Y), float64(t[1].Z)),
			fauxgl.V(float64(t[2].X), float64(t[2].Y), float64(t[2].Z)),
		)
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}
