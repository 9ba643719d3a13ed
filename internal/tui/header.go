package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/models"
)

var (
	leftTabNames  = []string{"Tasks", "Contents"}
	rightTabNames = []string{"Steps", "Summary", "Patch"}
)

func renderHeader(summary *models.ResultsSummary, leftTab, rightTab, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorCyan).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("trajview")

	leftTabs := renderTabs(leftTabNames, leftTab)
	rightTabs := renderTabs(rightTabNames, rightTab)
	counters := renderCounters(summary)

	// Layout: dot name  leftTabs    rightTabs  counters
	left := fmt.Sprintf(" %s %s  %s", dot, name, leftTabs)
	right := fmt.Sprintf("%s  %s ", rightTabs, counters)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderTabs(tabs []string, active int) string {
	var parts []string
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, inactiveTabStyle.Render(tab))
		}
	}
	return strings.Join(parts, tabSepStyle.Render(" | "))
}

func renderCounters(summary *models.ResultsSummary) string {
	if summary == nil {
		return dimStyle.Render("loading")
	}
	return fmt.Sprintf("%s %s %s",
		dimStyle.Render(fmt.Sprintf("%d tasks", summary.TotalInstances)),
		taskResolvedStyle.Render(fmt.Sprintf("✓ %d", summary.ResolvedInstances)),
		taskUnresolvedStyle.Render(fmt.Sprintf("✗ %d", summary.UnresolvedInstances)),
	)
}
