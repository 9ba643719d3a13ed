// Package web serves the trajectory viewer as a single HTML page. The
// navigation state travels in the query string, so the server keeps no
// per-visitor session.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/net/netutil"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/view"
	"github.com/watchfire-io/trajview/internal/watcher"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	FS       afero.Fs
	Settings *models.Settings
	Logger   *slog.Logger
}

// Server is the HTTP surface over one dataset.
type Server struct {
	fs       afero.Fs
	settings *models.Settings
	logger   *slog.Logger
	viewOpts view.Options

	mu sync.RWMutex
	ds *dataset.Dataset
}

// New creates a server for ds.
func New(ds *dataset.Dataset, opts Options) *Server {
	if opts.FS == nil {
		opts.FS = config.FS
	}
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		fs:       opts.FS,
		settings: opts.Settings,
		logger:   opts.Logger.With("component", "web"),
		viewOpts: view.OptionsFromSettings(opts.Settings.Viewer),
		ds:       ds,
	}
}

// Dataset returns the snapshot currently served.
func (s *Server) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Reload rereads the results and predictions files and swaps the served
// snapshot. On error the previous snapshot stays in place.
func (s *Server) Reload() error {
	fresh, err := s.Dataset().Refresh(s.fs)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	s.mu.Lock()
	s.ds = fresh
	s.mu.Unlock()
	s.logger.Info("dataset reloaded", "tasks", len(fresh.Tasks()))
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /raw/{task}", s.handleRaw)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

// Watch applies watcher events until ctx is cancelled: results and
// predictions changes reload the snapshot, trajectory changes drop the
// cached trajectory.
func (s *Server) Watch(ctx context.Context, w *watcher.Watcher) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.Events():
				s.applyEvent(ev)
			}
		}
	}()
}

func (s *Server) applyEvent(ev watcher.Event) {
	ds := s.Dataset()
	if ev.Type == watcher.EventTrajectoryChanged && !ds.IsMissing(ev.TaskID) {
		ds.Store.Invalidate(ev.TaskID)
		return
	}
	if err := s.Reload(); err != nil {
		s.logger.Warn("reload after change failed", "event", ev.Type.String(), "error", err)
	}
}

// ListenAndServe serves on addr until ctx is cancelled. At most
// Settings.Server.MaxConns connections are served at once.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if n := s.settings.Server.MaxConns; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}
