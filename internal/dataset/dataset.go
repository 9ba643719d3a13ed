package dataset

import (
	"errors"

	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/models"
)

// Dataset is one loaded snapshot of the results and predictions files,
// together with the store serving the trajectories.
type Dataset struct {
	Paths       config.DatasetPaths
	Summary     *models.ResultsSummary
	Predictions map[string]models.Prediction
	Store       *Store

	// Missing lists tasks of the summary with no directory on disk.
	Missing   []string
	isMissing map[string]bool
}

// Open loads the dataset at paths. Only the results file is required:
// predictions are optional and missing task directories are reported
// through Missing.
func Open(fs afero.Fs, paths config.DatasetPaths, opts ...StoreOption) (*Dataset, error) {
	return open(fs, paths, NewStore(fs, paths.TrajsDir, opts...))
}

// Refresh reloads the results and predictions files into a new snapshot
// sharing the receiver's store. The store's cached trajectories are
// dropped only when the reload succeeds.
func (d *Dataset) Refresh(fs afero.Fs) (*Dataset, error) {
	fresh, err := open(fs, d.Paths, d.Store)
	if err != nil {
		return nil, err
	}
	d.Store.Invalidate("")
	return fresh, nil
}

func open(fs afero.Fs, paths config.DatasetPaths, store *Store) (*Dataset, error) {
	summary, err := LoadResults(fs, paths.ResultsFile)
	if err != nil {
		return nil, err
	}

	preds, err := LoadPredictions(fs, paths.PredictionsFile)
	switch {
	case errors.Is(err, ErrNoPredictions):
		store.logger.Debug("no predictions file", "path", paths.PredictionsFile)
	case err != nil:
		store.logger.Warn("ignoring predictions file", "error", err)
		preds = map[string]models.Prediction{}
	}

	missing, err := store.MissingTasks(summary.Tasks)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		store.logger.Warn("tasks without trajectory directory", "count", len(missing), "first", missing[0])
	}

	d := &Dataset{
		Paths:       paths,
		Summary:     summary,
		Predictions: preds,
		Store:       store,
		Missing:     missing,
		isMissing:   make(map[string]bool, len(missing)),
	}
	for _, id := range missing {
		d.isMissing[id] = true
	}
	return d, nil
}

// Tasks returns the task records in results file order.
func (d *Dataset) Tasks() []models.TaskRecord {
	return d.Summary.Tasks
}

// IsMissing reports whether a task has no directory on disk.
func (d *Dataset) IsMissing(taskID string) bool {
	return d.isMissing[taskID]
}

// Prediction returns the predicted patch for a task.
func (d *Dataset) Prediction(taskID string) (models.Prediction, bool) {
	p, ok := d.Predictions[taskID]
	return p, ok
}
