package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/AntoninGranados/arcgo/geom"
)

// Frame files are named by zero-padded index so a lexicographic directory
// listing coincides with frame order: 0000000.obj, 0000001.obj, ...
const frameIndexWidth = 7

// DefaultFramePattern matches frame file names and captures the numeric
// frame index in its first submatch.
var DefaultFramePattern = regexp.MustCompile(`^(\d+)\.obj$`)

// FrameFileName returns the file name used for the given frame index.
func FrameFileName(idx int) string {
	return fmt.Sprintf("%0*d.obj", frameIndexWidth, idx)
}

// FrameStatus classifies the outcome of probing one frame file.
type FrameStatus int

const (
	FrameFound FrameStatus = iota
	FrameMissing
	FrameCorrupt
)

// FrameResult is the outcome of probing a single frame file: the mesh when
// the frame was found, or the reason it was not.
type FrameResult struct {
	Index  int
	Status FrameStatus
	Mesh   *geom.Mesh
	Err    error
}

// ProbeFrame attempts to read one frame from a simulation output
// directory. A nonexistent file is Missing, an unparseable one is Corrupt;
// neither is an error here, since bulk loading folds over these results.
func ProbeFrame(dir string, idx int) FrameResult {
	path := filepath.Join(dir, FrameFileName(idx))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return FrameResult{Index: idx, Status: FrameMissing}
	}

	m, err := geom.ReadOBJ(path)
	if err != nil {
		return FrameResult{Index: idx, Status: FrameCorrupt, Err: err}
	}
	return FrameResult{Index: idx, Status: FrameFound, Mesh: m}
}

// FrameError associates a load failure with the frame it belongs to.
type FrameError struct {
	Index int
	Err   error
}

// LoadReport describes the outcome of a bulk directory load: which frames
// made it into the state and which failed to parse, in ascending order.
type LoadReport struct {
	Loaded []int
	Failed []FrameError
}

// LoadDirectory scans a simulation output directory for frame files and
// parses each into a mesh. A corrupt frame does not abort the load: it is
// recorded in the report and the remaining frames are still loaded. Only a
// directory-level failure (e.g. the directory cannot be read) returns an
// error.
func LoadDirectory(dir string) (*State, *LoadReport, error) {
	return LoadDirectoryMatch(dir, DefaultFramePattern)
}

// LoadDirectoryMatch is LoadDirectory with a custom frame-name pattern.
// The pattern's first submatch must capture the decimal frame index.
func LoadDirectoryMatch(dir string, pattern *regexp.Regexp) (*State, *LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	state, report := NewState(), &LoadReport{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := pattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		idx, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		m, err := geom.ReadOBJ(filepath.Join(dir, entry.Name()))
		if err != nil {
			report.Failed = append(report.Failed, FrameError{idx, err})
			continue
		}
		state.SetFrame(idx, m)
	}
	report.Loaded = state.FrameIndices()
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Index < report.Failed[j].Index
	})

	return state, report, nil
}

// SaveError reports a bulk save that failed partway through, naming the
// frames that were already written so the caller can retry or clean up.
type SaveError struct {
	Dir     string
	Written []int
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf(
		"saving to %s failed after writing %d of the frames: %v",
		e.Dir, len(e.Written), e.Err,
	)
}

func (e *SaveError) Unwrap() error { return e.Err }

// SaveDirectory writes every frame to the given directory using the
// standard frame naming scheme, creating the directory if needed.
// Reloading the directory reproduces the same frame indices.
func (s *State) SaveDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	written := []int{}
	for _, idx := range s.FrameIndices() {
		m := s.frames[idx]
		if err := m.SaveOBJ(filepath.Join(dir, FrameFileName(idx))); err != nil {
			return &SaveError{Dir: dir, Written: written, Err: err}
		}
		written = append(written, idx)
	}
	return nil
}
