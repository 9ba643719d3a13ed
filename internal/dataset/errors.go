// Package dataset reads the trajectory dataset: the results summary
// (task index), the per-task trajectory files and the predictions file.
// Everything here is read-only.
package dataset

import (
	"errors"
	"fmt"
)

// ErrFilterYieldsEmpty reports that the current filters match no task.
// It is an empty state, not a failure.
var ErrFilterYieldsEmpty = errors.New("no tasks match the current filters")

// ErrNoPredictions reports a missing predictions file.
var ErrNoPredictions = errors.New("predictions file not found")

// DataFormatError reports a missing or malformed dataset file.
type DataFormatError struct {
	Path string
	Line int // 1-based line or entry number, 0 when not applicable
	Err  error
}

func (e *DataFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid data in %s (entry %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid data in %s: %v", e.Path, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// TrajectoryNotFound reports a task with no trajectory file on disk.
type TrajectoryNotFound struct {
	TaskID string
	Path   string
}

func (e *TrajectoryNotFound) Error() string {
	return fmt.Sprintf("no trajectory data for %s", e.TaskID)
}

// IsNotFound reports whether err is, or wraps, a TrajectoryNotFound.
func IsNotFound(err error) bool {
	var nf *TrajectoryNotFound
	return errors.As(err, &nf)
}

// IsDataFormat reports whether err is, or wraps, a DataFormatError.
func IsDataFormat(err error) bool {
	var df *DataFormatError
	return errors.As(err, &df)
}
