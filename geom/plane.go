package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// UniformPlane generates a rectangular cloth plane in the z=0 plane,
// sampled on a regular grid with the given spacing and split into two
// triangles per grid cell. Texture coordinates span [0, 1] in both u and v
// so the plane can be textured directly.
func UniformPlane(sizeX, sizeY, spacing float64) *Mesh {
	nx := int(sizeX/spacing) + 1
	ny := int(sizeY/spacing) + 1
	// A plane needs at least one cell on each axis.
	if nx < 2 {
		nx = 2
	}
	if ny < 2 {
		ny = 2
	}

	m := &Mesh{}
	for i := 0; i < nx; i++ {
		x := sizeX * float64(i) / float64(nx-1)
		for j := 0; j < ny; j++ {
			y := sizeY * float64(j) / float64(ny-1)
			m.AppendVertex(mgl64.Vec3{x, y, 0})
			m.AppendTexCoord(mgl64.Vec2{
				float64(i) / float64(nx-1), float64(j) / float64(ny-1),
			})
		}
	}

	for i := 0; i < nx-1; i++ {
		for j := 0; j < ny-1; j++ {
			a := i*ny + j
			b := (i+1)*ny + j
			c := (i+1)*ny + j + 1
			d := i*ny + j + 1

			// Indices were appended in lockstep, so Vert == Tex here.
			m.AppendFace(
				FaceVert{a, a}, FaceVert{b, b}, FaceVert{c, c},
			)
			m.AppendFace(
				FaceVert{a, a}, FaceVert{c, c}, FaceVert{d, d},
			)
		}
	}

	return m
}
