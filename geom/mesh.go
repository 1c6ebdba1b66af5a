package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NoTex marks a face corner that carries no texture coordinate.
const NoTex = -1

// FaceVert is one corner of a polygonal face: an index into the mesh's
// vertex list and, optionally, an index into its texture coordinate list.
type FaceVert struct {
	Vert, Tex int
}

// Mesh is a single polygonal mesh snapshot. Vertices and texture
// coordinates are kept in insertion order since faces reference them by
// index; growth is append-only and indices are never renumbered.
type Mesh struct {
	Vertices  []mgl64.Vec3
	TexCoords []mgl64.Vec2
	Faces     [][]FaceVert
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max mgl64.Vec3
}

// InvalidReferenceError reports a face corner referencing a vertex or
// texture coordinate index outside the mesh's current bounds.
type InvalidReferenceError struct {
	Kind  string // "vertex" or "texcoord"
	Index int
	Count int
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf(
		"face references %s index %d, but the mesh has %d",
		e.Kind, e.Index, e.Count,
	)
}

// AppendVertex adds a vertex at the next free index.
func (m *Mesh) AppendVertex(v mgl64.Vec3) {
	m.Vertices = append(m.Vertices, v)
}

// AppendTexCoord adds a texture coordinate at the next free index.
func (m *Mesh) AppendTexCoord(vt mgl64.Vec2) {
	m.TexCoords = append(m.TexCoords, vt)
}

// AppendFace adds a face made of the given corners. Every corner is
// checked against the current vertex and texture coordinate counts before
// anything is appended, so a failed append leaves the mesh unmodified.
func (m *Mesh) AppendFace(corners ...FaceVert) error {
	if len(corners) < 3 {
		return fmt.Errorf(
			"a face needs at least 3 corners, but got %d", len(corners),
		)
	}

	for _, c := range corners {
		if c.Vert < 0 || c.Vert >= len(m.Vertices) {
			return &InvalidReferenceError{"vertex", c.Vert, len(m.Vertices)}
		}
		if c.Tex != NoTex && (c.Tex < 0 || c.Tex >= len(m.TexCoords)) {
			return &InvalidReferenceError{"texcoord", c.Tex, len(m.TexCoords)}
		}
	}

	face := make([]FaceVert, len(corners))
	copy(face, corners)
	m.Faces = append(m.Faces, face)
	return nil
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) FaceCount() int   { return len(m.Faces) }

// Bounds computes the axis-aligned bounding box of the mesh's vertices.
// The box of an empty mesh is undefined, which is reported through the
// second return value rather than a zeroed box.
func (m *Mesh) Bounds() (BBox, bool) {
	if len(m.Vertices) == 0 {
		return BBox{}, false
	}

	box := BBox{m.Vertices[0], m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for d := 0; d < 3; d++ {
			box.Min[d] = math.Min(box.Min[d], v[d])
			box.Max[d] = math.Max(box.Max[d], v[d])
		}
	}
	return box, true
}

// Handles returns, for each query point, the index of the closest mesh
// vertex, or -1 if no vertex is within threshold. The returned indices can
// be pinned as simulation handles.
func (m *Mesh) Handles(points []mgl64.Vec3, threshold float64) []int {
	out := make([]int, len(points))
	for i, p := range points {
		best, bestDist := -1, math.Inf(+1)
		for j, v := range m.Vertices {
			if d := p.Sub(v).Len(); d < bestDist {
				best, bestDist = j, d
			}
		}
		if bestDist >= threshold {
			best = -1
		}
		out[i] = best
	}
	return out
}
