package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/view"
)

// renderSummary renders the action summary of the current trajectory.
func renderSummary(task *models.TaskRecord, v view.View, width int) string {
	if task == nil || v.TaskID == "" {
		return dimStyle.Render("No trajectory loaded.")
	}
	s := v.Summary

	status := taskUnresolvedStyle.Render("unresolved")
	if task.Resolved {
		status = taskResolvedStyle.Render("resolved")
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(task.ID) + "  " + status,
	}
	if url := task.PullURL(); url != "" {
		lines = append(lines, dimStyle.Render(url))
	}
	lines = append(lines, "",
		metric("Assistant steps", s.AssistantSteps),
		metric("Total steps", s.TotalSteps),
		metric("Files modified", len(s.FilesModified)),
		metric("Tool errors", s.ToolErrors),
		metric("Unique actions", s.UniqueActions()),
	)
	mc := s.MostCommon()
	lines = append(lines, fmt.Sprintf("%s %s (%d)", filterLabelStyle.Width(18).Render("Most common"), mc.Name, mc.Count))

	if len(s.Actions) > 0 {
		lines = append(lines, "", sectionHeaderStyle.Render("Actions"))
		top := s.Actions[0].Count
		barWidth := max(width-34, 4)
		for _, a := range s.Actions {
			n := max(a.Count*barWidth/top, 1)
			lines = append(lines, fmt.Sprintf("  %-24s %4d %s", a.Name, a.Count,
				successStyle.Render(strings.Repeat("█", n))))
		}
	}

	lines = append(lines, "", sectionHeaderStyle.Render("Roles"))
	for _, rc := range v.RoleCounts {
		lines = append(lines, fmt.Sprintf("  %s %d", roleStyle(rc.Role).Width(12).Render(view.RoleName(rc.Role)), rc.Count))
	}

	if len(s.FilesModified) > 0 {
		lines = append(lines, "", sectionHeaderStyle.Render("Files touched"))
		for _, f := range s.FilesModified {
			lines = append(lines, "  "+f)
		}
	}
	return strings.Join(lines, "\n")
}

func metric(label string, n int) string {
	return fmt.Sprintf("%s %d", filterLabelStyle.Width(18).Render(label), n)
}
