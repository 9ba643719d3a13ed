package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/models"
)

// Store reads per-task trajectory files laid out as <dir>/<task id>/<file>.json.
type Store struct {
	fs       afero.Fs
	dir      string
	keywords []string
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]*models.Trajectory
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithErrorKeywords sets the keywords that mark a tool result as failed.
func WithErrorKeywords(keywords []string) StoreOption {
	return func(s *Store) {
		if len(keywords) > 0 {
			s.keywords = keywords
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store rooted at dir.
func NewStore(fs afero.Fs, dir string, opts ...StoreOption) *Store {
	s := &Store{
		fs:       fs,
		dir:      dir,
		keywords: DefaultErrorKeywords,
		logger:   slog.New(slog.DiscardHandler),
		cache:    make(map[string]*models.Trajectory),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the trajectories directory.
func (s *Store) Dir() string {
	return s.dir
}

// TaskDir returns the directory holding a task's trajectory.
func (s *Store) TaskDir(taskID string) string {
	return filepath.Join(s.dir, taskID)
}

// validTaskID rejects identifiers that would escape the store directory.
func validTaskID(taskID string) bool {
	if taskID == "" || taskID == "." || taskID == ".." {
		return false
	}
	return !strings.ContainsAny(taskID, `/\`)
}

// trajectoryFile locates the task's trajectory file. When a directory
// holds several JSON files the lexically first one wins.
func (s *Store) trajectoryFile(taskID string) (string, error) {
	dir := s.TaskDir(taskID)
	if !validTaskID(taskID) {
		return "", &TrajectoryNotFound{TaskID: taskID, Path: dir}
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &TrajectoryNotFound{TaskID: taskID, Path: dir}
		}
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", &TrajectoryNotFound{TaskID: taskID, Path: dir}
	}
	sort.Strings(names)
	if len(names) > 1 {
		s.logger.Warn("multiple trajectory files", "task", taskID, "using", names[0], "count", len(names))
	}
	return filepath.Join(dir, names[0]), nil
}

// Load reads and parses a task's trajectory. Results are cached until
// Invalidate is called for the task.
func (s *Store) Load(taskID string) (*models.Trajectory, error) {
	s.mu.Lock()
	if t, ok := s.cache[taskID]; ok {
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	data, path, err := s.Raw(taskID)
	if err != nil {
		return nil, err
	}

	steps, err := ParseTrajectory(data, s.keywords)
	if err != nil {
		var df *DataFormatError
		if errors.As(err, &df) {
			df.Path = path
			return nil, df
		}
		return nil, &DataFormatError{Path: path, Err: err}
	}

	t := &models.Trajectory{TaskID: taskID, Path: path, Steps: steps}
	s.logger.Debug("trajectory loaded", "task", taskID, "steps", len(steps))

	s.mu.Lock()
	s.cache[taskID] = t
	s.mu.Unlock()
	return t, nil
}

// Raw returns the exact bytes of the task's trajectory file and its path.
func (s *Store) Raw(taskID string) ([]byte, string, error) {
	path, err := s.trajectoryFile(taskID)
	if err != nil {
		return nil, "", err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", &TrajectoryNotFound{TaskID: taskID, Path: path}
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, path, nil
}

// ExportFileName is the file name a task's raw trajectory is saved under.
func ExportFileName(taskID string) string {
	return taskID + "_trajectory.json"
}

// Invalidate drops a cached trajectory. An empty task ID clears the cache.
func (s *Store) Invalidate(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if taskID == "" {
		s.cache = make(map[string]*models.Trajectory)
		return
	}
	delete(s.cache, taskID)
}

// TaskDirs lists the task directories present on disk, sorted.
func (s *Store) TaskDirs() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// MissingTasks returns the IDs of tasks with no directory on disk, in
// task order.
func (s *Store) MissingTasks(tasks []models.TaskRecord) ([]string, error) {
	dirs, err := s.TaskDirs()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		present[d] = true
	}
	var missing []string
	for _, t := range tasks {
		if !present[t.ID] {
			missing = append(missing, t.ID)
		}
	}
	return missing, nil
}
