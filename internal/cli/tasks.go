package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

var (
	tasksProject string
	tasksStatus  string
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"ls"},
	Short:   "List tasks of the results summary",
	Args:    cobra.NoArgs,
	RunE:    runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksProject, "project", "", "only tasks of this project")
	tasksCmd.Flags().StringVar(&tasksStatus, "status", "", "only tasks with this status (all, resolved, unresolved)")
}

func runTasks(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters(tasksProject, tasksStatus)
	if err != nil {
		return err
	}
	ds, err := openDataset()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tasks := dataset.Filter(ds.Tasks(), filters)
	if len(tasks) == 0 {
		fmt.Fprintf(out, "%s\n", styleHint.Render(dataset.ErrFilterYieldsEmpty.Error()))
		return nil
	}

	s := ds.Summary
	fmt.Fprintf(out, "%s %s  %s  %s\n",
		styleBrand.Render("Tasks"),
		styleLabel.Render(fmt.Sprintf("(%d of %d)", len(tasks), len(ds.Tasks()))),
		badgeResolved.Render(fmt.Sprintf("✓ %d resolved", s.ResolvedInstances)),
		badgeUnresolved.Render(fmt.Sprintf("✗ %d unresolved", s.UnresolvedInstances)),
	)
	for _, t := range tasks {
		printTask(out, t, ds.IsMissing(t.ID))
	}

	var missing []string
	for _, t := range tasks {
		if ds.IsMissing(t.ID) {
			missing = append(missing, t.ID)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "\n%s %d task(s) have no trajectory directory under %s\n",
			styleWarning.Render("!"), len(missing), ds.Store.Dir())
	}
	return nil
}

func printTask(out io.Writer, t models.TaskRecord, missing bool) {
	badge := badgeUnresolved.Render("✗")
	if t.Resolved {
		badge = badgeResolved.Render("✓")
	}
	suffix := ""
	if missing {
		suffix = " " + badgeMissing.Render("(no data)")
	}
	fmt.Fprintf(out, "  %s  %s%s\n", badge, t.ID, suffix)
}
