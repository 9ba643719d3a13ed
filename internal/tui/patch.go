package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/models"
)

// PatchView displays the predicted patch of the current task in a
// read-only viewport.
type PatchView struct {
	viewport viewport.Model
	pred     *models.Prediction
	taskID   string
	width    int
	height   int
}

// NewPatchView creates a new patch view.
func NewPatchView() *PatchView {
	return &PatchView{viewport: viewport.New(80, 24)}
}

// SetPrediction updates the patch shown for taskID. pred is nil when the
// predictions file has no entry for the task.
func (p *PatchView) SetPrediction(taskID string, pred *models.Prediction) {
	if taskID != p.taskID {
		p.viewport.GotoTop()
	}
	p.taskID = taskID
	p.pred = pred
	if pred != nil {
		p.viewport.SetContent(colorizeDiff(pred.Patch))
	}
}

// SetSize updates dimensions.
func (p *PatchView) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = max(height-2, 1)
}

// ScrollUp scrolls the viewport up.
func (p *PatchView) ScrollUp(n int) {
	p.viewport.ScrollUp(n)
}

// ScrollDown scrolls the viewport down.
func (p *PatchView) ScrollDown(n int) {
	p.viewport.ScrollDown(n)
}

// PageUp scrolls up by half a page.
func (p *PatchView) PageUp() {
	p.viewport.HalfViewUp()
}

// PageDown scrolls down by half a page.
func (p *PatchView) PageDown() {
	p.viewport.HalfViewDown()
}

// View renders the patch.
func (p *PatchView) View() string {
	if p.taskID == "" {
		return dimStyle.Render("No task selected.")
	}
	if p.pred == nil {
		return dimStyle.Render("No prediction recorded for " + p.taskID + ".")
	}
	if strings.TrimSpace(p.pred.Patch) == "" {
		return dimStyle.Render("The agent submitted an empty patch.")
	}
	info := lipgloss.NewStyle().Bold(true).Render(p.taskID)
	if p.pred.Model != "" {
		info += "  " + dimStyle.Render(p.pred.Model)
	}
	return info + "\n" + dimStyle.Render(strings.Repeat("─", p.width)) + "\n" + p.viewport.View()
}

func colorizeDiff(patch string) string {
	lines := strings.Split(patch, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "diff --git"), strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = diffFileStyle.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = diffHunkStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = diffAddStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = diffDelStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
