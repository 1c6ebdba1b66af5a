// Package runner drives the external arcsim binary: it uploads a scene
// configuration, runs an offline simulation into an output directory, and
// converts the simulator's internal state dumps to frame files.
package runner

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/AntoninGranados/arcgo/config"
	"github.com/AntoninGranados/arcgo/logger"
	"github.com/AntoninGranados/arcgo/sim"
)

// The simulator prints one "Sim frame [k]" line per substep.
var simFrameRe = regexp.MustCompile(`Sim frame.*\[(\d+)\]`)

// Runner wraps one arcsim build.
type Runner struct {
	Bin string // path to the arcsim executable
}

// New returns a Runner for the given arcsim executable.
func New(bin string) *Runner {
	return &Runner{Bin: bin}
}

// Simulate validates the scene, uploads it to a temporary JSON file, and
// runs "arcsim simulateoffline" into outDir. The temporary file is removed
// when the run finishes.
func (r *Runner) Simulate(cfg *config.Config, outDir string) error {
	cfgPath, err := cfg.Upload()
	if err != nil {
		return err
	}
	defer config.Cleanup(cfgPath)

	return r.SimulateFile(cfgPath, outDir)
}

// SimulateFile runs "arcsim simulateoffline" with an already written scene
// configuration. The simulator's per-substep progress output is parsed and
// logged once per output frame; its stderr is surfaced in the returned
// error.
func (r *Runner) SimulateFile(cfgPath, outDir string) error {
	cfg, err := config.ReadFile(cfgPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	total := cfg.TotalFrames()

	cmd := exec.Command(r.Bin, "simulateoffline", cfgPath, outDir)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", r.Bin, err)
	}

	logger.Sugar.Infof("simulating %d frames into %s", total, outDir)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		match := simFrameRe.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		step, err := strconv.Atoi(match[1])
		if err != nil || step%cfg.FrameSteps != 0 {
			continue
		}
		logger.Sugar.Infof("simulated frame %d/%d", step/cfg.FrameSteps, total)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", r.Bin, err, stderr.String())
	}
	if stderr.Len() > 0 {
		return fmt.Errorf("%s reported errors: %s", r.Bin, stderr.String())
	}

	logger.Sugar.Infof("done simulating")
	return nil
}

// Generate runs "arcsim generate", converting the binary state dumps in
// outDir into per-frame mesh files.
func (r *Runner) Generate(outDir string) error {
	cmd := exec.Command(r.Bin, "generate", outDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s generate failed: %w: %s", r.Bin, err, out)
	}
	logger.Sugar.Infof("done generating frame files in %s", outDir)
	return nil
}

// Load reads the frame files the run produced. Corrupt frames are logged
// and skipped, matching the bulk-load policy of the sim package.
func (r *Runner) Load(outDir string) (*sim.State, error) {
	state, report, err := sim.LoadDirectory(outDir)
	if err != nil {
		return nil, err
	}
	for _, fail := range report.Failed {
		logger.Sugar.Warnf("skipping corrupt frame %d: %v", fail.Index, fail.Err)
	}
	logger.Sugar.Infof("loaded %d frames from %s", state.FrameCount(), outDir)
	return state, nil
}
