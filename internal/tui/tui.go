// Package tui implements the interactive trajectory browser.
package tui

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/watcher"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Options configures a TUI session.
type Options struct {
	Settings *models.Settings
	Paths    config.DatasetPaths
	FS       afero.Fs
	Logger   *slog.Logger
	// Filters applied before the first task is selected.
	Filters dataset.Filters
}

// Run launches the TUI and blocks until the user quits.
func Run(opts Options) error {
	if opts.FS == nil {
		opts.FS = config.FS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ref := &programRef{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var w *watcher.Watcher
	if opts.Settings.Viewer.Watch {
		var err error
		w, err = watcher.New(opts.Paths, watcher.WithLogger(opts.Logger))
		if err != nil {
			opts.Logger.Warn("dataset watcher disabled", "error", err)
			w = nil
		} else if err := w.Start(); err != nil {
			opts.Logger.Warn("dataset watcher disabled", "error", err)
			w.Stop()
			w = nil
		}
	}
	if w != nil {
		defer w.Stop()
	}

	model := NewModel(opts, ref)
	model.watcher = w
	model.watchCtx = ctx

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Store program reference for goroutine sends
	ref.Set(p)
	defer ref.Clear()

	_, err := p.Run()
	return err
}
