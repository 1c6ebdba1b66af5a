package main

const (
	ExampleSimulateFile = `[Simulate]

#######################
# Required Parameters #
#######################

# Path to the arcsim executable.
ArcsimBin = arcsim/bin/arcsim

# Scene configuration JSON file, in the simulator's format. Use the config
# package to generate one programmatically.
Scene = scenes/flag.json

# Directory the simulator writes its per-frame output into. It is created
# if it does not exist.
Output = out/flag

#######################
# Optional Parameters #
#######################

# Also run the simulator's "generate" step afterwards, converting its
# binary state dumps into per-frame mesh files.
# Generate = true

# Log file and level. Without LogFile, everything goes to the console.
# LogFile = run.log
# LogLevel = info`

	ExampleStatsFile = `[Stats]

#######################
# Required Parameters #
#######################

# Directory of per-frame mesh files produced by a simulation run.
Input = out/flag

#######################
# Optional Parameters #
#######################

# Figure files to write. Extent plots show the cloth's bounding box per
# frame; topology plots show vertex/face counts, i.e. remeshing activity.
# ExtentFig = extents.png
# TopologyFig = topology.png

# Resolve handle positions against the first frame: a whitespace-separated
# table with x y z columns, one handle point per row. The matched node
# indices are printed, ready to be pasted into a scene's handles section.
# HandleFile = handles.txt
# HandleThreshold = 0.1

# Log file and level.
# LogFile = stats.log
# LogLevel = info`
)

// SimulateConfig is the [Simulate] section of a run configuration file.
type SimulateConfig struct {
	ArcsimBin string
	Scene     string
	Output    string
	Generate  bool
	LogFile   string
	LogLevel  string
}

// StatsConfig is the [Stats] section of a run configuration file.
type StatsConfig struct {
	Input           string
	ExtentFig       string
	TopologyFig     string
	HandleFile      string
	HandleThreshold float64
	LogFile         string
	LogLevel        string
}

type SimulateWrapper struct {
	Simulate SimulateConfig
}

type StatsWrapper struct {
	Stats StatsConfig
}

// DefaultSimulateWrapper returns a wrapper with the optional parameters
// set to their defaults.
func DefaultSimulateWrapper() *SimulateWrapper {
	return &SimulateWrapper{SimulateConfig{LogLevel: "info"}}
}

func DefaultStatsWrapper() *StatsWrapper {
	return &StatsWrapper{StatsConfig{HandleThreshold: 0.1, LogLevel: "info"}}
}

func (con *SimulateConfig) ValidArcsimBin() bool { return con.ArcsimBin != "" }
func (con *SimulateConfig) ValidScene() bool     { return con.Scene != "" }
func (con *SimulateConfig) ValidOutput() bool    { return con.Output != "" }

func (con *StatsConfig) ValidInput() bool { return con.Input != "" }
func (con *StatsConfig) ValidHandleThreshold() bool {
	return con.HandleThreshold > 0
}
