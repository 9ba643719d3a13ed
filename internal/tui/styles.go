package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Role colors for step headers and the contents list.
var roleColors = map[models.Role]lipgloss.Color{
	models.RoleSystem:    lipgloss.Color("#DEB887"),
	models.RoleUser:      lipgloss.Color("#9370DB"),
	models.RoleAssistant: lipgloss.Color("#32CD32"),
	models.RoleTool:      lipgloss.Color("#1E90FF"),
}

func roleStyle(r models.Role) lipgloss.Style {
	c, ok := roleColors[r]
	if !ok {
		return lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)
)

// Tab styles.
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorWhite)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Task list styles.
var (
	taskResolvedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	taskUnresolvedStyle = lipgloss.NewStyle().Foreground(colorRed)
	taskNoDataStyle     = lipgloss.NewStyle().Foreground(colorDim)
	taskCurrentStyle    = lipgloss.NewStyle().Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})

	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Step view styles.
var (
	stepHeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"}).
			Padding(0, 1)

	focusedStepHeaderStyle = stepHeaderStyle.
				Underline(true)

	argKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorDim).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failureStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// Patch view styles.
var (
	diffAddStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	diffDelStyle  = lipgloss.NewStyle().Foreground(colorRed)
	diffHunkStyle = lipgloss.NewStyle().Foreground(colorCyan)
	diffFileStyle = lipgloss.NewStyle().Bold(true)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Filter form styles.
var (
	filterLabelStyle = lipgloss.NewStyle().
				Width(12).
				Foreground(colorDim)

	filterValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite)

	filterStatusStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	filterCursorStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)
