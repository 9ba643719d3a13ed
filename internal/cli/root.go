// Package cli implements the trajview CLI commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/logs"
	"github.com/watchfire-io/trajview/internal/models"
)

var rootCmd = &cobra.Command{
	Use:   "trajview",
	Short: "Browse agent trajectories of SWE-bench runs",
	Long: `trajview browses the recorded trajectories of an agent evaluated on
SWE-bench style tasks: the results summary, each task's step-by-step
trajectory and the predicted patch.

Run without a subcommand to open the interactive viewer.`,
	SilenceUsage: true,
}

// Persistent flag values. Empty means "use settings".
var (
	flagDataDir     string
	flagResults     string
	flagTrajs       string
	flagPredictions string
	flagLogLevel    string
)

// Per-invocation state set up by setup.
var (
	settings  *models.Settings
	logger    = logs.Discard()
	logCloser io.Closer
)

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Assigned here since setup refers back to rootCmd.
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRun = teardown
	rootCmd.RunE = runView

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDataDir, "data-dir", "", "dataset base directory")
	pf.StringVar(&flagResults, "results", "", "results summary file")
	pf.StringVar(&flagTrajs, "trajs", "", "trajectories directory")
	pf.StringVar(&flagPredictions, "predictions", "", "predictions JSONL file")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(viewCmd)
}

// setup loads settings, applies flag overrides and opens the log.
func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	applyFlags(s)
	settings = s

	// The TUI owns the terminal, so only other commands log to stderr.
	interactive := cmd == rootCmd || cmd == viewCmd
	l, closer, err := logs.New(logs.Options{Level: s.Log.Level, Stderr: !interactive})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styleWarning.Render("logging disabled:"), err)
		logger = logs.Discard()
		return nil
	}
	logger, logCloser = l, closer
	logger.Debug("command started", "command", cmd.CommandPath())
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func applyFlags(s *models.Settings) {
	if flagDataDir != "" {
		s.Dataset.BaseDir = flagDataDir
	}
	if flagResults != "" {
		s.Dataset.ResultsFile = flagResults
	}
	if flagTrajs != "" {
		s.Dataset.TrajsDir = flagTrajs
	}
	if flagPredictions != "" {
		s.Dataset.PredictionsFile = flagPredictions
	}
	if flagLogLevel != "" {
		s.Log.Level = flagLogLevel
	}
}

func datasetPaths() config.DatasetPaths {
	return config.ResolveDataset(settings.Dataset)
}

func storeOptions() []dataset.StoreOption {
	return []dataset.StoreOption{
		dataset.WithErrorKeywords(settings.Viewer.ErrorKeywords),
		dataset.WithLogger(logger),
	}
}

// openDataset loads the results summary, predictions and store.
func openDataset() (*dataset.Dataset, error) {
	ds, err := dataset.Open(config.FS, datasetPaths(), storeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// openStore opens only the trajectory store; commands reading a single
// task do not need the results summary.
func openStore() *dataset.Store {
	return dataset.NewStore(config.FS, datasetPaths().TrajsDir, storeOptions()...)
}

