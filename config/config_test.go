package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagScene() *Config {
	return &Config{
		FrameTime:  0.04,
		FrameSteps: 8,
		EndTime:    10,
		Cloths: []Cloth{{
			Mesh: "meshes/flag.obj",
			Transform: &Transform{
				Rotate: &Rotation{Angle: 45, Axis: mgl64.Vec3{0, 1, 0}},
			},
			Materials: []Material{{
				Data:         "materials/camel-ponte-roma.json",
				Thicken:      2,
				StrainLimits: [2]float64{0.95, 1.05},
			}},
			Remeshing: &Remesh{
				RefineAngle:       0.3,
				RefineCompression: 0.01,
				RefineVelocity:    1,
				Size:              [2]float64{20e-3, 500e-3},
				AspectMin:         0.2,
			},
		}},
		Handles: []Handle{{Nodes: []int{0, 3}}},
		Gravity: mgl64.Vec3{9.81, 0, 0},
		Wind:    &Wind{Velocity: mgl64.Vec3{10, 0, 0}, Density: 1},
		Magic:   &Magic{RepulsionThickness: 10e-3, CollisionStiffness: 1e6},
		Disable: []string{"popfilter"},
	}
}

func TestCheckInit(t *testing.T) {
	require.NoError(t, flagScene().CheckInit())
}

func TestCheckInitRejects(t *testing.T) {
	tests := []struct {
		name  string
		mutate func(*Config)
	}{
		{"zero frame time", func(c *Config) { c.FrameTime = 0 }},
		{"zero frame steps", func(c *Config) { c.FrameSteps = 0 }},
		{"negative end time", func(c *Config) { c.EndTime = -1 }},
		{"no cloths", func(c *Config) { c.Cloths = nil }},
		{"cloth without mesh", func(c *Config) { c.Cloths[0].Mesh = "" }},
		{"cloth without materials", func(c *Config) { c.Cloths[0].Materials = nil }},
		{"material without data", func(c *Config) { c.Cloths[0].Materials[0].Data = "" }},
		{"inverted strain limits", func(c *Config) {
			c.Cloths[0].Materials[0].StrainLimits = [2]float64{1.1, 0.9}
		}},
		{"inverted remesh sizes", func(c *Config) {
			c.Cloths[0].Remeshing.Size = [2]float64{0.5, 0.02}
		}},
		{"bad aspect min", func(c *Config) { c.Cloths[0].Remeshing.AspectMin = 0 }},
		{"negative handle node", func(c *Config) { c.Handles[0].Nodes[0] = -1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := flagScene()
			test.mutate(c)
			assert.Error(t, c.CheckInit())
		})
	}
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(flagScene())
	require.NoError(t, err)

	// Decode generically to check the exact shape the simulator expects.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, 0.04, raw["frame_time"])
	assert.Equal(t, []interface{}{9.81, 0.0, 0.0}, raw["gravity"])

	cloths := raw["cloths"].([]interface{})
	require.Len(t, cloths, 1)
	cloth := cloths[0].(map[string]interface{})
	assert.Equal(t, "meshes/flag.obj", cloth["mesh"])

	// Rotations flatten to [angle, x, y, z].
	transform := cloth["transform"].(map[string]interface{})
	assert.Equal(t, []interface{}{45.0, 0.0, 1.0, 0.0}, transform["rotate"])
	_, hasTranslate := transform["translate"]
	assert.False(t, hasTranslate, "unset translate must be omitted")

	handles := raw["handles"].([]interface{})
	handle := handles[0].(map[string]interface{})
	assert.Equal(t, []interface{}{0.0, 3.0}, handle["nodes"])
}

func TestRotationRoundTrip(t *testing.T) {
	r := Rotation{Angle: 30, Axis: mgl64.Vec3{0, 0, 1}}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var r2 Rotation
	require.NoError(t, json.Unmarshal(data, &r2))
	assert.Equal(t, r, r2)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	c := flagScene()
	require.NoError(t, c.WriteFile(path))

	c2, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, c2)
}

func TestWriteFileRejectsInvalid(t *testing.T) {
	c := flagScene()
	c.FrameTime = 0
	err := c.WriteFile(filepath.Join(t.TempDir(), "conf.json"))
	assert.Error(t, err)
}

func TestUploadCleanup(t *testing.T) {
	path, err := flagScene().Upload()
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, Cleanup(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t,
		os.WriteFile(path, []byte(`{"frame_time": 0.04, "gravityy": [0,0,0]}`), 0644))

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestTotalFrames(t *testing.T) {
	assert.Equal(t, 250, flagScene().TotalFrames())
}
