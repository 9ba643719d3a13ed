package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/view"
)

// ContentsList is the table of contents of the loaded trajectory.
type ContentsList struct {
	entries      []view.TOCEntry
	roles        []view.RoleCount
	cursor       int
	scrollOffset int
	height       int
}

// NewContentsList creates an empty contents list.
func NewContentsList() *ContentsList {
	return &ContentsList{}
}

// SetEntries replaces the entries and moves the cursor to the current step.
func (c *ContentsList) SetEntries(entries []view.TOCEntry, roles []view.RoleCount) {
	c.entries = entries
	c.roles = roles
	c.cursor = 0
	for i, e := range entries {
		if e.Current {
			c.cursor = i
			break
		}
	}
	c.ensureVisible()
}

// SetHeight sets the visible height.
func (c *ContentsList) SetHeight(h int) {
	c.height = h
	c.ensureVisible()
}

// Selected returns the step index under the cursor, or -1.
func (c *ContentsList) Selected() int {
	if c.cursor < 0 || c.cursor >= len(c.entries) {
		return -1
	}
	return c.entries[c.cursor].Index
}

// MoveUp moves the cursor up.
func (c *ContentsList) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
		c.ensureVisible()
	}
}

// MoveDown moves the cursor down.
func (c *ContentsList) MoveDown() {
	if c.cursor < len(c.entries)-1 {
		c.cursor++
		c.ensureVisible()
	}
}

// Top moves the cursor to the first step.
func (c *ContentsList) Top() {
	c.cursor = 0
	c.ensureVisible()
}

// Bottom moves the cursor to the last step.
func (c *ContentsList) Bottom() {
	c.cursor = max(len(c.entries)-1, 0)
	c.ensureVisible()
}

// rows is the number of entry rows below the role count line.
func (c *ContentsList) rows() int {
	return max(c.height-2, 1)
}

func (c *ContentsList) ensureVisible() {
	rows := c.rows()
	if c.cursor < c.scrollOffset {
		c.scrollOffset = c.cursor
	}
	if c.cursor >= c.scrollOffset+rows {
		c.scrollOffset = c.cursor - rows + 1
	}
	if c.scrollOffset < 0 {
		c.scrollOffset = 0
	}
}

// View renders the contents list.
func (c *ContentsList) View(width int) string {
	if len(c.entries) == 0 {
		return dimStyle.Render("No trajectory loaded.")
	}

	lines := []string{ansi.Truncate(renderRoleCounts(c.roles), width, "…"), ""}
	end := min(c.scrollOffset+c.rows(), len(c.entries))
	for i := c.scrollOffset; i < end; i++ {
		line := c.formatEntry(c.entries[i])
		line = ansi.Truncate(line, width, "…")
		if i == c.cursor {
			line = selectedItemStyle.Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(c.entries) {
		lines = append(lines, dimStyle.Render("  ▼ more"))
	}
	return strings.Join(lines, "\n")
}

func (c *ContentsList) formatEntry(e view.TOCEntry) string {
	marker := " "
	if e.Current {
		marker = "▶"
	}
	title := e.Title
	if m := e.Outcome.Marker(); m != "" {
		title += " " + m
	}
	return fmt.Sprintf("%s%4d %s %s",
		marker,
		e.Number,
		roleStyle(e.Role).Render(title),
		dimStyle.Render(e.Label),
	)
}

func renderRoleCounts(counts []view.RoleCount) string {
	parts := make([]string, 0, len(counts))
	for _, rc := range counts {
		parts = append(parts, roleStyle(rc.Role).Render(fmt.Sprintf("%s %d", view.RoleName(rc.Role), rc.Count)))
	}
	return strings.Join(parts, dimStyle.Render(" · "))
}

// roleLabel is the upper-case role tag shown on step headers.
func roleLabel(r models.Role) string {
	return strings.ToUpper(string(r))
}
