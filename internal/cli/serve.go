package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/watcher"
	"github.com/watchfire-io/trajview/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the viewer over HTTP",
	Long: `Serve the trajectory viewer as a web page. The dataset is read once at
startup and reloaded when its files change (see the viewer.watch setting).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ds, err := openDataset()
	if err != nil {
		return err
	}
	srv := web.New(ds, web.Options{FS: config.FS, Settings: settings, Logger: logger})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.Viewer.Watch {
		w, err := watcher.New(ds.Paths, watcher.WithLogger(logger))
		if err == nil {
			err = w.Start()
			if err != nil {
				w.Stop()
			}
		}
		if err != nil {
			logger.Warn("dataset watcher disabled", "error", err)
		} else {
			defer w.Stop()
			srv.Watch(ctx, w)
		}
	}

	addr := settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s serving %d tasks on %s\n",
		styleBrand.Render("trajview"), len(ds.Tasks()), styleCommand.Render("http://"+addr))
	return srv.ListenAndServe(ctx, addr)
}
