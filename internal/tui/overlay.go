package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayKind is the modal drawn above the panels.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayFilter
)

// overlayBox frames an overlay: bold title, body lines, dimmed footer.
func overlayBox(title string, body []string, footer string, width int) string {
	parts := make([]string, 0, len(body)+3)
	parts = append(parts, overlayTitleStyle.Render(title))
	parts = append(parts, body...)
	if footer != "" {
		parts = append(parts, "", overlayDimStyle.Render(footer))
	}
	return overlayStyle.Width(width).Render(strings.Join(parts, "\n"))
}

// placeOverlay dims base and draws box centered on top of it.
func placeOverlay(base, box string, width, height int) string {
	rows := strings.Split(base, "\n")
	boxRows := strings.Split(box, "\n")
	top := max((height-len(boxRows))/2, 1)
	left := max((width-lipgloss.Width(box))/2, 1)

	for i, row := range rows {
		dimmed := overlayDimStyle.Render(row)
		j := i - top
		if j < 0 || j >= len(boxRows) {
			rows[i] = dimmed
			continue
		}
		fg := boxRows[j]
		end := left + lipgloss.Width(fg)
		var right string
		if w := lipgloss.Width(dimmed); end < w {
			right = ansi.Cut(dimmed, end, w)
		}
		rows[i] = ansi.Truncate(dimmed, left, "") + ansi.ResetStyle + fg + ansi.ResetStyle + right
	}
	return strings.Join(rows, "\n")
}
