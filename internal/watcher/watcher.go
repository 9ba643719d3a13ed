// Package watcher reports changes to the dataset files so open viewers
// can reload.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/watchfire-io/trajview/internal/config"
)

// EventType represents the type of dataset change.
type EventType int

// Event types for dataset changes.
const (
	EventResultsChanged EventType = iota
	EventPredictionsChanged
	EventTrajectoryChanged
)

func (t EventType) String() string {
	switch t {
	case EventResultsChanged:
		return "results"
	case EventPredictionsChanged:
		return "predictions"
	case EventTrajectoryChanged:
		return "trajectory"
	}
	return "unknown"
}

// DefaultDebounce is how long a path must be quiet before its event fires.
const DefaultDebounce = 100 * time.Millisecond

// Event represents a dataset change.
type Event struct {
	Type   EventType
	TaskID string // set for EventTrajectoryChanged
	Path   string
}

// Watcher watches the results file, the predictions file and the
// trajectory tree.
type Watcher struct {
	paths     config.DatasetPaths
	fsWatcher *fsnotify.Watcher
	logger    *slog.Logger
	delay     time.Duration

	eventsChan chan Event
	done       chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New creates a watcher for the dataset at paths.
func New(paths config.DatasetPaths, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		paths:      paths,
		fsWatcher:  fsWatcher,
		logger:     slog.New(slog.DiscardHandler),
		delay:      DefaultDebounce,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start adds the watches and starts processing events. Directories that
// do not exist are skipped with a warning.
func (w *Watcher) Start() error {
	w.add(filepath.Dir(w.paths.ResultsFile))
	if w.paths.PredictionsFile != "" {
		w.add(filepath.Dir(w.paths.PredictionsFile))
	}
	w.add(w.paths.TrajsDir)

	// fsnotify is not recursive: each task directory gets its own watch.
	entries, err := os.ReadDir(w.paths.TrajsDir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				w.add(filepath.Join(w.paths.TrajsDir, e.Name()))
			}
		}
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops the watcher and waits for pending work to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()
		w.wg.Wait()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) add(dir string) {
	if err := w.fsWatcher.Add(dir); err != nil {
		w.logger.Warn("failed to watch directory", "dir", dir, "error", err)
		return
	}
	w.logger.Debug("watching", "dir", dir)
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.logger.Debug("fsnotify", "op", event.Op.String(), "path", event.Name)
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Rename matters: atomic writers rename a temp file onto the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	// A new task directory needs its own watch before its file shows up.
	if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == filepath.Clean(w.paths.TrajsDir) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.add(event.Name)
		}
	}

	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange classifies a debounced change and emits its event.
func (w *Watcher) processFileChange(path string) {
	ev, ok := w.classify(path)
	if !ok {
		return
	}
	w.logger.Info("dataset changed", "type", ev.Type.String(), "task", ev.TaskID, "path", path)
	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}

func (w *Watcher) classify(path string) (Event, bool) {
	path = filepath.Clean(path)
	switch path {
	case filepath.Clean(w.paths.ResultsFile):
		return Event{Type: EventResultsChanged, Path: path}, true
	case filepath.Clean(w.paths.PredictionsFile):
		return Event{Type: EventPredictionsChanged, Path: path}, true
	}

	rel, err := filepath.Rel(filepath.Clean(w.paths.TrajsDir), path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Event{}, false
	}
	taskID, rest, _ := strings.Cut(rel, string(filepath.Separator))
	if rest != "" && filepath.Ext(rest) != ".json" {
		return Event{}, false
	}
	return Event{Type: EventTrajectoryChanged, TaskID: taskID, Path: path}, true
}
