package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/tui"
)

var (
	viewProject string
	viewStatus  string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive viewer",
	Args:  cobra.NoArgs,
}

func init() {
	viewCmd.RunE = runView
	viewCmd.Flags().StringVar(&viewProject, "project", "", "start with this project filter")
	viewCmd.Flags().StringVar(&viewStatus, "status", "", "start with this status filter (all, resolved, unresolved)")
}

func runView(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters(viewProject, viewStatus)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Settings: settings,
		Paths:    datasetPaths(),
		FS:       config.FS,
		Logger:   logger,
		Filters:  filters,
	})
}

func parseFilters(project, status string) (dataset.Filters, error) {
	s, ok := models.ParseStatusFilter(status)
	if !ok {
		return dataset.Filters{}, fmt.Errorf("invalid status: %s (expected all, resolved or unresolved)", status)
	}
	return dataset.Filters{Project: project, Status: s}, nil
}
