package analyze

import (
	plt "github.com/phil-mansfield/pyplot"
)

// PlotExtents writes a pyplot figure of the per-axis bounding box extents
// across a trajectory. Divergence between frames usually means the cloth
// is drifting or blowing up, so this is the first plot to look at after a
// run.
func PlotExtents(stats []FrameStat, figName string) {
	idxs := make([]float64, len(stats))
	exts := [3][]float64{}
	for axis := 0; axis < 3; axis++ {
		exts[axis] = make([]float64, len(stats))
	}
	for i := range stats {
		idxs[i] = float64(stats[i].Index)
		for axis := 0; axis < 3; axis++ {
			exts[axis][i] = stats[i].Extent(axis)
		}
	}

	plt.Reset()
	plt.Figure()

	plt.Plot(idxs, exts[0], "r", plt.LW(2))
	plt.Plot(idxs, exts[1], "g", plt.LW(2))
	plt.Plot(idxs, exts[2], "b", plt.LW(2))

	plt.Title("Cloth bounding box extents")
	plt.XLabel("Frame")
	plt.YLabel("Extent [m]")

	plt.SaveFig(figName)
	plt.Execute()
}

// PlotTopology writes a pyplot figure of vertex and face counts per frame,
// which makes remeshing activity visible at a glance.
func PlotTopology(stats []FrameStat, figName string) {
	idxs := make([]float64, len(stats))
	verts := make([]float64, len(stats))
	faces := make([]float64, len(stats))
	for i := range stats {
		idxs[i] = float64(stats[i].Index)
		verts[i] = float64(stats[i].Verts)
		faces[i] = float64(stats[i].Faces)
	}

	plt.Reset()
	plt.Figure()

	plt.Plot(idxs, verts, "k", plt.LW(2))
	plt.Plot(idxs, faces, "b", plt.LW(2))

	plt.Title("Mesh topology per frame")
	plt.XLabel("Frame")
	plt.YLabel("Count")

	plt.SaveFig(figName)
	plt.Execute()
}
