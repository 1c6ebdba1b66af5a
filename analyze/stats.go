// Package analyze computes per-frame statistics over a simulation
// trajectory and renders them with pyplot.
package analyze

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phil-mansfield/table"

	"github.com/AntoninGranados/arcgo/geom"
	"github.com/AntoninGranados/arcgo/sim"
)

// FrameStat summarizes one frame of a trajectory.
type FrameStat struct {
	Index        int
	Verts, Faces int
	Box          geom.BBox
	// BoxDefined is false for a frame with no vertices.
	BoxDefined bool
}

// Extent returns the bounding box size along the given axis, or 0 when
// the box is undefined.
func (st *FrameStat) Extent(axis int) float64 {
	if !st.BoxDefined {
		return 0
	}
	return st.Box.Max[axis] - st.Box.Min[axis]
}

// Stats computes per-frame statistics in ascending frame order.
func Stats(s *sim.State) []FrameStat {
	idxs := s.FrameIndices()
	stats := make([]FrameStat, len(idxs))
	for i, idx := range idxs {
		m, err := s.Frame(idx)
		if err != nil {
			// Impossible: idx came from the same state's snapshot.
			panic(err)
		}

		box, ok := m.Bounds()
		stats[i] = FrameStat{
			Index:      idx,
			Verts:      m.VertexCount(),
			Faces:      m.FaceCount(),
			Box:        box,
			BoxDefined: ok,
		}
	}
	return stats
}

// ReadHandlePoints reads 3D handle positions from a whitespace-separated
// text table with x, y, z columns. Feed the result to geom.Mesh.Handles to
// turn positions into pinnable node indices.
func ReadHandlePoints(path string) ([]mgl64.Vec3, error) {
	cols, err := table.ReadTable(path, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}
	xs, ys, zs := cols[0], cols[1], cols[2]

	points := make([]mgl64.Vec3, len(xs))
	for i := range points {
		points[i] = mgl64.Vec3{xs[i], ys[i], zs[i]}
	}
	return points, nil
}

// HandleNodes resolves handle positions against a rest mesh, failing if
// any point is too far from every vertex.
func HandleNodes(m *geom.Mesh, points []mgl64.Vec3, threshold float64) ([]int, error) {
	nodes := m.Handles(points, threshold)
	for i, node := range nodes {
		if node == -1 {
			return nil, fmt.Errorf(
				"handle point %d at %v is further than %g from every vertex",
				i, points[i], threshold,
			)
		}
	}
	return nodes, nil
}
