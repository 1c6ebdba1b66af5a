package sim

import (
	"fmt"
	"sort"

	"github.com/AntoninGranados/arcgo/geom"
)

// State holds the trajectory of one simulation run: mesh snapshots keyed
// by frame index. Indices are unique and non-negative; gaps are permitted,
// since the simulator may be killed mid-run or configured to skip frames.
// A State is single-owner and not safe for concurrent use.
type State struct {
	frames map[int]*geom.Mesh
}

// FrameNotFoundError reports access to a frame index the state does not
// contain.
type FrameNotFoundError struct {
	Index int
}

func (e *FrameNotFoundError) Error() string {
	return fmt.Sprintf("no frame with index %d", e.Index)
}

// NewState creates an empty trajectory.
func NewState() *State {
	return &State{frames: map[int]*geom.Mesh{}}
}

// Frame returns the mesh stored at the given frame index.
func (s *State) Frame(idx int) (*geom.Mesh, error) {
	m, ok := s.frames[idx]
	if !ok {
		return nil, &FrameNotFoundError{idx}
	}
	return m, nil
}

// SetFrame inserts or replaces a single frame. Topology is deliberately
// not checked against sibling frames; see CheckTopology.
func (s *State) SetFrame(idx int, m *geom.Mesh) {
	s.frames[idx] = m
}

// FrameCount returns the number of frames currently stored.
func (s *State) FrameCount() int { return len(s.frames) }

// FrameIndices returns the frame indices in ascending order. The slice is
// a snapshot: later SetFrame calls do not change it.
func (s *State) FrameIndices() []int {
	idxs := make([]int, 0, len(s.frames))
	for idx := range s.frames {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// TopologyReport is the result of comparing vertex and face counts across
// all frames of a trajectory.
type TopologyReport struct {
	// Reference is the frame the others were compared against (the lowest
	// index), or -1 for a trajectory with no frames.
	Reference          int
	RefVerts, RefFaces int
	// Divergent lists the frames whose counts differ from the reference,
	// in ascending order.
	Divergent []int
}

// Consistent reports whether every frame shares the reference topology.
func (r TopologyReport) Consistent() bool { return len(r.Divergent) == 0 }

// CheckTopology compares vertex and face counts across all frames. A
// divergent frame is not an error: adaptive remeshing legitimately changes
// topology between frames, so the report is advisory and the caller
// decides whether divergence matters.
func (s *State) CheckTopology() TopologyReport {
	idxs := s.FrameIndices()
	if len(idxs) == 0 {
		return TopologyReport{Reference: -1}
	}

	ref := s.frames[idxs[0]]
	report := TopologyReport{
		Reference: idxs[0],
		RefVerts:  ref.VertexCount(),
		RefFaces:  ref.FaceCount(),
	}
	for _, idx := range idxs[1:] {
		m := s.frames[idx]
		if m.VertexCount() != report.RefVerts || m.FaceCount() != report.RefFaces {
			report.Divergent = append(report.Divergent, idx)
		}
	}
	return report
}

// Merge concatenates two trajectories along the time axis: a's frames keep
// their indices and b's are renumbered to follow them, preserving b's
// relative frame spacing. The inputs are not modified and the result
// shares their meshes.
func Merge(a, b *State) *State {
	out := NewState()
	for idx, m := range a.frames {
		out.frames[idx] = m
	}

	bIdxs := b.FrameIndices()
	if len(bIdxs) == 0 {
		return out
	}

	offset := 0
	if aIdxs := a.FrameIndices(); len(aIdxs) > 0 {
		offset = aIdxs[len(aIdxs)-1] + 1 - bIdxs[0]
	}
	for _, idx := range bIdxs {
		out.frames[idx+offset] = b.frames[idx]
	}
	return out
}
