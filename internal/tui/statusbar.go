package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/nav"
)

func renderStatusBar(m *Model, width int) string {
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}
	if m.notice != "" {
		return renderNoticeBar(m.notice, width)
	}

	left := " " + getKeyHints(m)
	right := renderPosition(m) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	switch m.activeOverlay {
	case overlayHelp:
		return keyHint("Esc", "close")
	case overlayFilter:
		if m.filterForm != nil && m.filterForm.IsEditing() {
			return keyHint("Enter", "confirm") + "  " + keyHint("Esc", "cancel")
		}
		return keyHint("Ctrl+s", "apply") + "  " + keyHint("Space", "cycle") + "  " +
			keyHint("x", "clear") + "  " + keyHint("Esc", "cancel")
	}

	base := keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " + keyHint("Tab", "switch")
	if m.ctrl == nil {
		return base
	}
	if m.ctrl.Empty() {
		return base + "  " + keyHint("/", "filter") + "  " + hintStyle.Render("(no matching tasks)")
	}

	hints := navHint(m)
	if m.focusedPanel == 0 {
		switch m.leftTab {
		case 0:
			return base + "  " + keyHint("Enter", "open") + "  " + hints + "  " + keyHint("/", "filter")
		case 1:
			return base + "  " + keyHint("Enter", "jump") + "  " + hints
		}
	}
	switch m.rightTab {
	case 0:
		return base + "  " + hints + "  " + keyHint("D", "export")
	default:
		return base + "  " + keyHint("j/k", "scroll") + "  " + hints
	}
}

// navHint renders the task and step keys, dimming the ones at a boundary.
func navHint(m *Model) string {
	parts := []string{
		boundaryHint("[", m.ctrl.CanPrevTask()) + boundaryHint("]", m.ctrl.CanNextTask()) + " " + hintStyle.Render("task"),
		boundaryHint("h", m.ctrl.CanPrevStep()) + boundaryHint("l", m.ctrl.CanNextStep()) + " " + hintStyle.Render("step"),
		keyHint("f", "mode"),
	}
	return strings.Join(parts, "  ")
}

func boundaryHint(k string, enabled bool) string {
	if !enabled {
		return dimStyle.Render(k)
	}
	return keyStyle.Render(k)
}

func renderPosition(m *Model) string {
	if m.ctrl == nil || m.ctrl.Empty() {
		return ""
	}
	st := m.ctrl.State()
	pos := fmt.Sprintf("task %d/%d", st.TaskIndex+1, len(m.ctrl.Tasks()))
	if traj := m.ctrl.Trajectory(); traj != nil && traj.Len() > 0 {
		pos += fmt.Sprintf(" · step %d/%d", st.StepIndex+1, traj.Len())
	}
	mode := "full"
	if st.Mode == nav.ViewSingle {
		mode = "single"
	}
	return hintStyle.Render(pos + " · " + mode)
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderNoticeBar(msg string, width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render(msg))
}
