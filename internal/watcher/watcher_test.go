package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/watchfire-io/trajview/internal/config"
)

func newDataset(t *testing.T) config.DatasetPaths {
	t.Helper()
	root := t.TempDir()
	paths := config.DatasetPaths{
		TrajsDir:        filepath.Join(root, "trajs"),
		ResultsFile:     filepath.Join(root, "results", "results.json"),
		PredictionsFile: filepath.Join(root, "all_preds.jsonl"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(paths.TrajsDir, "astropy__astropy-12907"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.ResultsFile), 0o755))
	require.NoError(t, os.WriteFile(paths.ResultsFile, []byte(`{}`), 0o644))
	return paths
}

func waitEvent(t *testing.T, w *Watcher, want EventType) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	paths := newDataset(t)
	w, err := New(paths, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(paths.TrajsDir, "astropy__astropy-12907", "traj.json"), []byte(`[]`), 0o644))
	ev := waitEvent(t, w, EventTrajectoryChanged)
	assert.Equal(t, "astropy__astropy-12907", ev.TaskID)

	require.NoError(t, os.WriteFile(paths.ResultsFile, []byte(`{"resolved_ids": []}`), 0o644))
	ev = waitEvent(t, w, EventResultsChanged)
	assert.Equal(t, paths.ResultsFile, ev.Path)

	require.NoError(t, os.WriteFile(paths.PredictionsFile, []byte("\n"), 0o644))
	waitEvent(t, w, EventPredictionsChanged)
}

func TestWatcherFollowsNewTaskDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	paths := newDataset(t)
	w, err := New(paths, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	dir := filepath.Join(paths.TrajsDir, "django__django-11099")
	require.NoError(t, os.Mkdir(dir, 0o755))
	ev := waitEvent(t, w, EventTrajectoryChanged)
	assert.Equal(t, "django__django-11099", ev.TaskID)

	// Give the new watch time to register before writing inside it.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "traj.json"), []byte(`[]`), 0o644))
	ev = waitEvent(t, w, EventTrajectoryChanged)
	assert.Equal(t, "django__django-11099", ev.TaskID)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(newDataset(t))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}

func TestClassify(t *testing.T) {
	paths := config.DatasetPaths{
		TrajsDir:        "/data/trajs",
		ResultsFile:     "/data/results/results.json",
		PredictionsFile: "/data/all_preds.jsonl",
	}
	w := &Watcher{paths: paths}

	tests := []struct {
		path   string
		ok     bool
		typ    EventType
		taskID string
	}{
		{"/data/results/results.json", true, EventResultsChanged, ""},
		{"/data/all_preds.jsonl", true, EventPredictionsChanged, ""},
		{"/data/trajs/a__b-1/output.json", true, EventTrajectoryChanged, "a__b-1"},
		{"/data/trajs/a__b-1", true, EventTrajectoryChanged, "a__b-1"},
		{"/data/trajs/a__b-1/notes.txt", false, 0, ""},
		{"/data/results/other.json", false, 0, ""},
		{"/data/trajs", false, 0, ""},
	}
	for _, tt := range tests {
		ev, ok := w.classify(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.Equal(t, tt.typ, ev.Type, tt.path)
			assert.Equal(t, tt.taskID, ev.TaskID, tt.path)
		}
	}
}
