package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleArgKey  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// Task status badge styles.
var (
	badgeResolved   = lipgloss.NewStyle().Foreground(colorGreen)
	badgeUnresolved = lipgloss.NewStyle().Foreground(colorRed)
	badgeMissing    = lipgloss.NewStyle().Foreground(colorDim)
)

// Diff styles for `trajview patch`.
var (
	styleDiffAdd  = lipgloss.NewStyle().Foreground(colorGreen)
	styleDiffDel  = lipgloss.NewStyle().Foreground(colorRed)
	styleDiffHunk = lipgloss.NewStyle().Foreground(colorCyan)
	styleDiffFile = lipgloss.NewStyle().Bold(true)
)

var roleColors = map[models.Role]lipgloss.Color{
	models.RoleSystem:    lipgloss.Color("#DEB887"),
	models.RoleUser:      lipgloss.Color("#9370DB"),
	models.RoleAssistant: lipgloss.Color("#32CD32"),
	models.RoleTool:      lipgloss.Color("#1E90FF"),
}

func styleRole(r models.Role) lipgloss.Style {
	if c, ok := roleColors[r]; ok {
		return lipgloss.NewStyle().Bold(true).Foreground(c)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorDim)
}
