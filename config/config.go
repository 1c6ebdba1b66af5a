// Package config builds the JSON scene configuration consumed by the
// arcsim binary. The recognized fields are fixed and validated here, at
// construction time, instead of surfacing as simulator errors at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is an angle (degrees) around an axis. The simulator's JSON
// encoding is a flat [angle, x, y, z] array.
type Rotation struct {
	Angle float64
	Axis  mgl64.Vec3
}

func (r Rotation) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.Angle, r.Axis[0], r.Axis[1], r.Axis[2]})
}

func (r *Rotation) UnmarshalJSON(data []byte) error {
	var flat [4]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	r.Angle = flat[0]
	r.Axis = mgl64.Vec3{flat[1], flat[2], flat[3]}
	return nil
}

// Transform places a cloth in the scene before the simulation starts.
type Transform struct {
	Translate *mgl64.Vec3 `json:"translate,omitempty"`
	Rotate    *Rotation   `json:"rotate,omitempty"`
}

// Material references one of the simulator's measured cloth material files
// and its per-scene overrides.
type Material struct {
	Data         string     `json:"data"`
	Thicken      float64    `json:"thicken,omitempty"`
	StrainLimits [2]float64 `json:"strain_limits"`
}

func (m *Material) CheckInit(name string) error {
	if m.Data == "" {
		return fmt.Errorf("need to specify a material file for %s", name)
	}
	if m.Thicken < 0 {
		return fmt.Errorf(
			"%s given a negative thicken factor, %g", name, m.Thicken,
		)
	}
	if m.StrainLimits[0] > m.StrainLimits[1] {
		return fmt.Errorf(
			"strain limits of %s are inverted: [%g, %g]",
			name, m.StrainLimits[0], m.StrainLimits[1],
		)
	}
	return nil
}

// Remesh holds the adaptive remeshing parameters of one cloth.
type Remesh struct {
	RefineAngle       float64    `json:"refine_angle"`
	RefineCompression float64    `json:"refine_compression"`
	RefineVelocity    float64    `json:"refine_velocity"`
	Size              [2]float64 `json:"size"`
	AspectMin         float64    `json:"aspect_min"`
}

func (r *Remesh) CheckInit(name string) error {
	if r.Size[0] <= 0 || r.Size[1] <= 0 {
		return fmt.Errorf(
			"remeshing sizes of %s must be positive, but are [%g, %g]",
			name, r.Size[0], r.Size[1],
		)
	}
	if r.Size[0] > r.Size[1] {
		return fmt.Errorf(
			"remeshing sizes of %s are inverted: [%g, %g]",
			name, r.Size[0], r.Size[1],
		)
	}
	if r.AspectMin <= 0 || r.AspectMin > 1 {
		return fmt.Errorf(
			"AspectMin of %s must be in (0, 1], but is %g", name, r.AspectMin,
		)
	}
	return nil
}

// Cloth is one simulated garment: its rest mesh, initial placement,
// materials, and remeshing behavior.
type Cloth struct {
	Mesh      string     `json:"mesh"`
	Transform *Transform `json:"transform,omitempty"`
	Materials []Material `json:"materials"`
	Remeshing *Remesh    `json:"remeshing,omitempty"`
}

func (c *Cloth) CheckInit(name string) error {
	if c.Mesh == "" {
		return fmt.Errorf("need to specify a mesh file for %s", name)
	}
	if len(c.Materials) == 0 {
		return fmt.Errorf("need at least one material for %s", name)
	}
	for i := range c.Materials {
		matName := fmt.Sprintf("material %d of %s", i, name)
		if err := c.Materials[i].CheckInit(matName); err != nil {
			return err
		}
	}
	if c.Remeshing != nil {
		if err := c.Remeshing.CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// Handle pins a set of mesh nodes in place for the whole run.
type Handle struct {
	Nodes []int `json:"nodes"`
}

// Wind is a constant wind field.
type Wind struct {
	Velocity mgl64.Vec3 `json:"velocity"`
	Density  float64    `json:"density"`
	Drag     float64    `json:"drag"`
}

// Magic holds the simulator's solver fudge factors.
type Magic struct {
	RepulsionThickness float64 `json:"repulsion_thickness,omitempty"`
	CollisionStiffness float64 `json:"collision_stiffness,omitempty"`
}

// Config is a complete scene description for one offline simulation run.
type Config struct {
	FrameTime  float64 `json:"frame_time"`
	FrameSteps int     `json:"frame_steps"`
	EndTime    float64 `json:"end_time"`

	Cloths  []Cloth  `json:"cloths"`
	Handles []Handle `json:"handles,omitempty"`

	Gravity mgl64.Vec3 `json:"gravity"`
	Wind    *Wind      `json:"wind,omitempty"`
	Magic   *Magic     `json:"magic,omitempty"`

	// Disable lists simulator modules to turn off, e.g. "popfilter" or
	// "remeshing".
	Disable []string `json:"disable,omitempty"`
}

func (c *Config) CheckInit() error {
	if c.FrameTime <= 0 {
		return fmt.Errorf(
			"need to specify a positive FrameTime, but got %g", c.FrameTime,
		)
	}
	if c.FrameSteps <= 0 {
		return fmt.Errorf(
			"need to specify a positive FrameSteps, but got %d", c.FrameSteps,
		)
	}
	if c.EndTime <= 0 {
		return fmt.Errorf(
			"need to specify a positive EndTime, but got %g", c.EndTime,
		)
	}
	if len(c.Cloths) == 0 {
		return fmt.Errorf("need at least one cloth")
	}
	for i := range c.Cloths {
		name := fmt.Sprintf("Cloth %d", i)
		if err := c.Cloths[i].CheckInit(name); err != nil {
			return err
		}
	}
	for i, h := range c.Handles {
		for _, node := range h.Nodes {
			if node < 0 {
				return fmt.Errorf(
					"Handle %d pins the negative node index %d", i, node,
				)
			}
		}
	}
	return nil
}

// TotalFrames returns how many output frames the run will produce.
func (c *Config) TotalFrames() int {
	return int(c.EndTime / c.FrameTime)
}

// WriteFile validates the config and writes it as simulator-ready JSON.
func (c *Config) WriteFile(path string) error {
	if err := c.CheckInit(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Upload writes the config to a fresh temporary file and returns its
// path. The caller owns the file and removes it with Cleanup once the
// simulator has read it.
func (c *Config) Upload() (string, error) {
	if err := c.CheckInit(); err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "arcgo-conf-*.json")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()

	if err := c.WriteFile(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Cleanup removes a file written by Upload.
func Cleanup(path string) error { return os.Remove(path) }

// ReadFile loads a previously written scene configuration. Unknown fields
// are rejected so a typo in a hand-edited file fails loudly.
func ReadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	c := &Config{}
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
