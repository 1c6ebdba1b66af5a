package sim

import (
	"path/filepath"
	"strconv"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports frame indices as the external simulator writes frame
// files into an output directory. Each index is delivered once, the first
// time its file shows up, which makes it usable as a progress feed while
// the simulator runs.
type Watcher struct {
	fw     *fsnotify.Watcher
	frames chan int
}

// WatchDirectory starts watching the given directory, which must already
// exist. Close the watcher to stop it; the Frames channel is closed when
// the watcher stops.
func WatchDirectory(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, frames: make(chan int, 64)}
	go w.loop()
	return w, nil
}

// Frames returns the channel of newly appeared frame indices.
func (w *Watcher) Frames() <-chan int { return w.frames }

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fw.Close() }

func (w *Watcher) loop() {
	defer close(w.frames)

	// The simulator writes each frame file incrementally, so a single
	// frame produces a Create followed by several Writes; seen dedupes.
	seen := map[int]bool{}
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			match := DefaultFramePattern.FindStringSubmatch(filepath.Base(ev.Name))
			if match == nil {
				continue
			}
			idx, err := strconv.Atoi(match[1])
			if err != nil || seen[idx] {
				continue
			}
			seen[idx] = true
			w.frames <- idx
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}
