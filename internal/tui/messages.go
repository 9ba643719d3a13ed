package tui

import (
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/watcher"
)

// DatasetLoadedMsg carries a freshly loaded dataset snapshot.
type DatasetLoadedMsg struct {
	Dataset *dataset.Dataset
}

// DatasetChangedMsg carries a change reported by the dataset watcher.
type DatasetChangedMsg struct {
	Event watcher.Event
}

// ExportedMsg signals a raw trajectory was written to disk.
type ExportedMsg struct {
	TaskID string
	Path   string
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearNoticeMsg clears the notice display.
type ClearNoticeMsg struct{}
