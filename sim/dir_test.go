package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrames(t *testing.T, dir string, zs ...float64) {
	t.Helper()
	for i, z := range zs {
		err := triangle(z).SaveOBJ(filepath.Join(dir, FrameFileName(i)))
		require.NoError(t, err)
	}
}

func TestFrameFileName(t *testing.T) {
	assert.Equal(t, "0000000.obj", FrameFileName(0))
	assert.Equal(t, "0000123.obj", FrameFileName(123))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 0, 1, 2)

	state, report, err := LoadDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, state.FrameIndices())
	assert.Equal(t, []int{0, 1, 2}, report.Loaded)
	assert.Empty(t, report.Failed)
	assert.True(t, state.CheckTopology().Consistent())
}

func TestLoadDirectoryCorruptFrame(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 0, 1, 2, 3)

	// Frame 2 references a vertex that does not exist.
	corrupt := []byte("v 0 0 0\nf 1 2 3\n")
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, FrameFileName(2)), corrupt, 0644))

	state, report, err := LoadDirectory(dir)
	require.NoError(t, err, "one corrupt frame must not abort the load")

	assert.Equal(t, []int{0, 1, 3}, state.FrameIndices())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 2, report.Failed[0].Index)
	assert.Error(t, report.Failed[0].Err)
}

func TestLoadDirectoryIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 0)
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "obstacle.obj"), []byte("v 0 0\n"), 0644))
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "conf.json"), []byte("{}"), 0644))

	state, report, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, state.FrameIndices())
	assert.Empty(t, report.Failed)
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestProbeFrame(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 0)
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, FrameFileName(1)), []byte("v x y z\n"), 0644))

	res := ProbeFrame(dir, 0)
	assert.Equal(t, FrameFound, res.Status)
	require.NotNil(t, res.Mesh)
	assert.Equal(t, 3, res.Mesh.VertexCount())

	res = ProbeFrame(dir, 1)
	assert.Equal(t, FrameCorrupt, res.Status)
	assert.Error(t, res.Err)

	res = ProbeFrame(dir, 2)
	assert.Equal(t, FrameMissing, res.Status)
	assert.Nil(t, res.Err)
}

func TestSaveDirectoryRoundTrip(t *testing.T) {
	state := NewState()
	state.SetFrame(0, triangle(0))
	state.SetFrame(1, triangle(1))
	state.SetFrame(5, triangle(5)) // gaps survive a save/load cycle

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, state.SaveDirectory(dir))

	reloaded, report, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []int{0, 1, 5}, reloaded.FrameIndices())

	for _, idx := range reloaded.FrameIndices() {
		want, err := state.Frame(idx)
		require.NoError(t, err)
		got, err := reloaded.Frame(idx)
		require.NoError(t, err)
		assert.Equal(t, want, got, "frame %d", idx)
	}
}

func TestSaveDirectoryUnwritable(t *testing.T) {
	state := NewState()
	state.SetFrame(0, triangle(0))

	// A regular file cannot be a target directory.
	path := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.Error(t, state.SaveDirectory(path))
}

func TestEndToEndTrajectory(t *testing.T) {
	// The two-frame trajectory a fresh simulator run produces: a unit
	// triangle, then the same triangle translated along z.
	dir := t.TempDir()
	writeFrames(t, dir, 0, 1)

	state, report, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []int{0, 1}, state.FrameIndices())
	assert.True(t, state.CheckTopology().Consistent())

	out := filepath.Join(t.TempDir(), "resaved")
	require.NoError(t, state.SaveDirectory(out))

	again, _, err := LoadDirectory(out)
	require.NoError(t, err)
	for _, idx := range state.FrameIndices() {
		want, _ := state.Frame(idx)
		got, err := again.Frame(idx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()

	w, err := WatchDirectory(dir)
	require.NoError(t, err)
	defer w.Close()

	writeFrames(t, dir, 0, 1)

	got := map[int]bool{}
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case idx := <-w.Frames():
			got[idx] = true
		case <-timeout:
			t.Fatalf("saw frames %v before timing out", got)
		}
	}
	assert.True(t, got[0])
	assert.True(t, got[1])
}
