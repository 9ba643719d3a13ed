package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/watcher"
)

func openDatasetCmd(fs afero.Fs, paths config.DatasetPaths, opts ...dataset.StoreOption) tea.Cmd {
	return func() tea.Msg {
		ds, err := dataset.Open(fs, paths, opts...)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load dataset: %w", err)}
		}
		return DatasetLoadedMsg{Dataset: ds}
	}
}

func refreshDatasetCmd(fs afero.Fs, ds *dataset.Dataset) tea.Cmd {
	return func() tea.Msg {
		fresh, err := ds.Refresh(fs)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to reload dataset: %w", err)}
		}
		return DatasetLoadedMsg{Dataset: fresh}
	}
}

// exportCmd copies the task's trajectory file byte for byte into dir on fs.
func exportCmd(fs afero.Fs, store *dataset.Store, dir, taskID string) tea.Cmd {
	return func() tea.Msg {
		data, _, err := store.Raw(taskID)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to export %s: %w", taskID, err)}
		}
		path := filepath.Join(dir, dataset.ExportFileName(taskID))
		if err := config.WriteFileAtomicFS(fs, path, data); err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to export %s: %w", taskID, err)}
		}
		return ExportedMsg{TaskID: taskID, Path: path}
	}
}

// subscribeWatcherCmd forwards watcher events to the program until ctx
// is cancelled.
func subscribeWatcherCmd(ctx context.Context, w *watcher.Watcher, program *programRef) tea.Cmd {
	return func() tea.Msg {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-w.Events():
					if !ok {
						return
					}
					program.Send(DatasetChangedMsg{Event: ev})
				}
			}
		}()
		return nil
	}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
