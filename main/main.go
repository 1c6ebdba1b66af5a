package main

import (
	"flag"
	"fmt"
	"log"

	"gopkg.in/gcfg.v1"

	"github.com/AntoninGranados/arcgo/analyze"
	"github.com/AntoninGranados/arcgo/logger"
	"github.com/AntoninGranados/arcgo/runner"
	"github.com/AntoninGranados/arcgo/sim"
)

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		simulate, stats, exampleConfig string
	)
	vars := map[string]*string{
		"Simulate":      &simulate,
		"Stats":         &stats,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&simulate, "Simulate", "",
		"Configuration file for [Simulate] mode.",
	)
	flag.StringVar(
		&stats, "Stats", "",
		"Configuration file for [Stats] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Simulate' and 'Stats'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Simulate":
		wrap := DefaultSimulateWrapper()
		if err := gcfg.ReadFileInto(wrap, simulate); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Simulate

		if !con.ValidArcsimBin() {
			log.Fatal("Invalid/non-existent 'ArcsimBin' value.")
		} else if !con.ValidScene() {
			log.Fatal("Invalid/non-existent 'Scene' value.")
		} else if !con.ValidOutput() {
			log.Fatal("Invalid/non-existent 'Output' value.")
		}

		if err := logger.Init(con.LogLevel, con.LogFile); err != nil {
			log.Fatal(err.Error())
		}
		defer logger.Sync()
		simulateMain(con)

	case "Stats":
		wrap := DefaultStatsWrapper()
		if err := gcfg.ReadFileInto(wrap, stats); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Stats

		if !con.ValidInput() {
			log.Fatal("Invalid/non-existent 'Input' value.")
		} else if !con.ValidHandleThreshold() {
			log.Fatal("Invalid 'HandleThreshold' value.")
		}

		if err := logger.Init(con.LogLevel, con.LogFile); err != nil {
			log.Fatal(err.Error())
		}
		defer logger.Sync()
		statsMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Simulate":
			fmt.Println(ExampleSimulateFile)
		case "Stats":
			fmt.Println(ExampleStatsFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Simulate' and 'Stats'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive
// error if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}
	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The flags %v were all set, but only one flag can be set "+
				"at a time.", setNames,
		)
	}
	return setNames[0], nil
}

func simulateMain(con *SimulateConfig) {
	r := runner.New(con.ArcsimBin)

	// Report frames as their files land in the output directory. This is
	// best-effort progress: the directory may not exist until the runner
	// creates it, and the runner's own stdout parsing still logs substeps.
	if w, err := sim.WatchDirectory(con.Output); err == nil {
		defer w.Close()
		go func() {
			for idx := range w.Frames() {
				logger.Sugar.Infof("frame file %s written", sim.FrameFileName(idx))
			}
		}()
	}

	if err := r.SimulateFile(con.Scene, con.Output); err != nil {
		logger.Sugar.Fatalf("simulation failed: %v", err)
	}
	if con.Generate {
		if err := r.Generate(con.Output); err != nil {
			logger.Sugar.Fatalf("frame generation failed: %v", err)
		}
	}

	state, err := r.Load(con.Output)
	if err != nil {
		logger.Sugar.Fatalf("loading %s: %v", con.Output, err)
	}
	if report := state.CheckTopology(); !report.Consistent() {
		logger.Sugar.Warnf(
			"%d frames diverge from the topology of frame %d; "+
				"remeshing was probably active",
			len(report.Divergent), report.Reference,
		)
	}
}

func statsMain(con *StatsConfig) {
	state, report, err := sim.LoadDirectory(con.Input)
	if err != nil {
		logger.Sugar.Fatalf("loading %s: %v", con.Input, err)
	}
	for _, fail := range report.Failed {
		logger.Sugar.Warnf("skipping corrupt frame %d: %v", fail.Index, fail.Err)
	}
	if state.FrameCount() == 0 {
		logger.Sugar.Fatalf("%s contains no frames", con.Input)
	}

	stats := analyze.Stats(state)
	logger.Sugar.Infof("%d frames, %d corrupt", len(stats), len(report.Failed))

	if con.ExtentFig != "" {
		analyze.PlotExtents(stats, con.ExtentFig)
	}
	if con.TopologyFig != "" {
		analyze.PlotTopology(stats, con.TopologyFig)
	}

	if con.HandleFile != "" {
		points, err := analyze.ReadHandlePoints(con.HandleFile)
		if err != nil {
			logger.Sugar.Fatalf("reading %s: %v", con.HandleFile, err)
		}

		first, err := state.Frame(state.FrameIndices()[0])
		if err != nil {
			logger.Sugar.Fatalf("%v", err)
		}
		nodes, err := analyze.HandleNodes(first, points, con.HandleThreshold)
		if err != nil {
			logger.Sugar.Fatalf("%v", err)
		}
		fmt.Printf("handle nodes: %v\n", nodes)
	}
}
