package tui

import "github.com/charmbracelet/lipgloss"

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"q", "Quit"},
			{"?", "Toggle help"},
			{"Tab", "Switch panel focus"},
			{"1/2", "Tasks / Contents tab"},
			{"3/4/5", "Steps / Summary / Patch tab"},
			{"/", "Filter by project and status"},
			{"r", "Reload the dataset"},
			{"D", "Export raw trajectory"},
		},
	},
	{
		title: "Navigation",
		keys: []helpKey{
			{"[ / ]", "Previous / next task"},
			{"h/l ←/→", "Previous / next step"},
			{"f", "Toggle full / single-step view"},
		},
	},
	{
		title: "Tasks",
		keys: []helpKey{
			{"j/k ↑/↓", "Move cursor"},
			{"g/G", "First / last task"},
			{"Enter", "Open task"},
		},
	},
	{
		title: "Contents",
		keys: []helpKey{
			{"j/k ↑/↓", "Move cursor"},
			{"Enter", "Jump to step"},
		},
	},
	{
		title: "Steps / Patch",
		keys: []helpKey{
			{"j/k", "Scroll"},
			{"PgUp/PgDn", "Scroll by half a page"},
		},
	},
	{
		title: "Filter",
		keys: []helpKey{
			{"Tab", "Next field"},
			{"Enter", "Edit project"},
			{"Space", "Cycle status"},
			{"x", "Clear filters"},
			{"Ctrl+s", "Apply"},
			{"Esc", "Cancel"},
		},
	},
}

// renderHelp renders the help overlay content.
func renderHelp(width int) string {
	boxWidth := min(max(width-4, 30), 60)
	keyStyle := lipgloss.NewStyle().Width(14).Foreground(colorWhite).Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	var body []string
	for i, sec := range helpSections {
		if i > 0 {
			body = append(body, "")
		}
		body = append(body, sectionStyle.Render(sec.title))
		for _, k := range sec.keys {
			body = append(body, "  "+keyStyle.Render(k.key)+dimStyle.Render(k.desc))
		}
	}
	return overlayBox("Keyboard Shortcuts", body, "Press Esc or ? to close", boxWidth)
}
