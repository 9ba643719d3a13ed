package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// panelLayout holds computed dimensions for the two-panel layout. The
// inner sizes exclude the one-cell rounded border on each side.
type panelLayout struct {
	leftWidth     int
	rightWidth    int
	contentHeight int
	dividerCol    int // x position of the divider for mouse hit testing

	leftInner   int
	rightInner  int
	innerHeight int
}

func computeLayout(width, height int, splitRatio float64) panelLayout {
	// One line each for header and status bar.
	contentHeight := max(height-2, 1)

	usable := width - 1 // divider
	leftWidth := max(int(float64(usable)*splitRatio), 10)
	rightWidth := max(usable-leftWidth, 10)

	return panelLayout{
		leftWidth:     leftWidth,
		rightWidth:    rightWidth,
		contentHeight: contentHeight,
		dividerCol:    leftWidth,
		leftInner:     max(leftWidth-2, 1),
		rightInner:    max(rightWidth-2, 1),
		innerHeight:   max(contentHeight-2, 1),
	}
}

func renderPanels(leftContent, rightContent string, layout panelLayout, focusedPanel int) string {
	leftStyle, rightStyle := unfocusedBorderStyle, unfocusedBorderStyle
	if focusedPanel == 0 {
		leftStyle = focusedBorderStyle
	} else {
		rightStyle = focusedBorderStyle
	}

	left := leftStyle.
		Width(layout.leftInner).
		Height(layout.innerHeight).
		Render(fitContent(leftContent, layout.leftInner, layout.innerHeight))

	right := rightStyle.
		Width(layout.rightInner).
		Height(layout.innerHeight).
		Render(fitContent(rightContent, layout.rightInner, layout.innerHeight))

	divider := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(strings.TrimSuffix(strings.Repeat("│\n", lipgloss.Height(left)), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)
}

// fitContent clips content to the panel's inner box, ANSI-aware.
func fitContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
