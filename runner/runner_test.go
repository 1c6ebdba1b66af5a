package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoninGranados/arcgo/config"
)

// fakeArcsim writes a stand-in for the arcsim binary that emits the same
// progress lines and a single valid frame file.
func fakeArcsim(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake simulator script needs a POSIX shell")
	}

	bin := filepath.Join(t.TempDir(), "arcsim")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin
}

func testScene() *config.Config {
	return &config.Config{
		FrameTime:  0.04,
		FrameSteps: 8,
		EndTime:    0.4,
		Cloths: []config.Cloth{{
			Mesh:      "meshes/flag.obj",
			Materials: []config.Material{{Data: "materials/ponte.json"}},
		}},
		Gravity: mgl64.Vec3{0, 0, -9.81},
	}
}

func TestSimulateAndLoad(t *testing.T) {
	bin := fakeArcsim(t, `#!/bin/sh
out="$3"
echo "Sim frame [0]"
echo "Sim frame [8]"
printf 'v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n' > "$out/0000000.obj"
printf 'v 0 0 1\nv 1 0 1\nv 0 1 1\nf 1 2 3\n' > "$out/0000001.obj"
`)

	outDir := filepath.Join(t.TempDir(), "out")
	r := New(bin)
	require.NoError(t, r.Simulate(testScene(), outDir))

	state, err := r.Load(outDir)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, state.FrameIndices())
	assert.True(t, state.CheckTopology().Consistent())
}

func TestSimulateFailure(t *testing.T) {
	bin := fakeArcsim(t, `#!/bin/sh
echo "Cannot open material file" >&2
exit 1
`)

	r := New(bin)
	err := r.Simulate(testScene(), filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot open material file")
}

func TestSimulateStderrWithoutExitCode(t *testing.T) {
	// The real simulator sometimes reports problems on stderr but still
	// exits zero; those runs must not be treated as successes.
	bin := fakeArcsim(t, `#!/bin/sh
echo "warning: degenerate triangle" >&2
exit 0
`)

	r := New(bin)
	err := r.Simulate(testScene(), filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	bin := fakeArcsim(t, `#!/bin/sh
if [ "$1" != "generate" ]; then exit 1; fi
touch "$2/generated"
`)

	dir := t.TempDir()
	require.NoError(t, New(bin).Generate(dir))

	_, err := os.Stat(filepath.Join(dir, "generated"))
	assert.NoError(t, err)
}

func TestSimulateRejectsInvalidScene(t *testing.T) {
	scene := testScene()
	scene.Cloths = nil

	err := New("arcsim-not-needed").Simulate(scene, t.TempDir())
	assert.Error(t, err)
}
