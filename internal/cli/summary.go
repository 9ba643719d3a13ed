package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/view"
)

const barWidth = 30

var summaryCmd = &cobra.Command{
	Use:   "summary <task>",
	Short: "Summarize the actions of a task's trajectory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	traj, err := openStore().Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	s := view.Summarize(traj)

	task := models.NewTaskRecord(traj.TaskID, false)
	fmt.Fprintln(out, styleBrand.Render(traj.TaskID))
	if u := task.PullURL(); u != "" {
		fmt.Fprintln(out, styleHint.Render(u))
	}
	fmt.Fprintln(out)

	row := func(label string, value any) {
		fmt.Fprintf(out, "  %s %v\n", styleLabel.Render(fmt.Sprintf("%-16s", label)), value)
	}
	row("Steps", s.TotalSteps)
	row("Assistant steps", s.AssistantSteps)
	row("Unique actions", s.UniqueActions())
	most := s.MostCommon()
	if most.Count > 0 {
		row("Most common", fmt.Sprintf("%s (%d)", most.Name, most.Count))
	} else {
		row("Most common", most.Name)
	}
	row("Tool errors", s.ToolErrors)

	for _, rc := range view.CountRoles(traj) {
		row(view.RoleName(rc.Role), rc.Count)
	}

	if len(s.Actions) > 0 {
		fmt.Fprintf(out, "\n%s\n", styleCommand.Render("Actions"))
		top := s.Actions[0].Count
		for _, a := range s.Actions {
			n := a.Count * barWidth / top
			fmt.Fprintf(out, "  %-24s %s %d\n", a.Name, styleSuccess.Render(strings.Repeat("█", max(n, 1))), a.Count)
		}
	}

	if len(s.FilesModified) > 0 {
		fmt.Fprintf(out, "\n%s\n", styleCommand.Render("Files modified"))
		for _, f := range s.FilesModified {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	return nil
}
