package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/trajview/internal/nav"
	"github.com/watchfire-io/trajview/internal/view"
)

// StepView shows the rendered steps in a scrollable viewport.
type StepView struct {
	viewport viewport.Model
	v        view.View
	width    int
	height   int
}

// NewStepView creates a new step view.
func NewStepView() *StepView {
	return &StepView{viewport: viewport.New(80, 24)}
}

// SetSize updates dimensions and re-wraps the content.
func (s *StepView) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.Width = width
	s.viewport.Height = max(height-2, 1)
	s.render(false)
}

// SetView replaces the rendered view and scrolls to the focused step.
func (s *StepView) SetView(v view.View) {
	s.v = v
	s.render(true)
}

// ScrollUp scrolls the viewport up.
func (s *StepView) ScrollUp(n int) {
	s.viewport.ScrollUp(n)
}

// ScrollDown scrolls the viewport down.
func (s *StepView) ScrollDown(n int) {
	s.viewport.ScrollDown(n)
}

// PageUp scrolls up by half a page.
func (s *StepView) PageUp() {
	s.viewport.HalfViewUp()
}

// PageDown scrolls down by half a page.
func (s *StepView) PageDown() {
	s.viewport.HalfViewDown()
}

func (s *StepView) render(scrollToFocus bool) {
	if s.width <= 0 {
		return
	}
	var b strings.Builder
	focusLine := 0
	for i, step := range s.v.Steps {
		if i == s.v.Focus {
			focusLine = strings.Count(b.String(), "\n")
		}
		b.WriteString(renderStep(step, s.width))
		b.WriteString("\n\n")
	}
	s.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	if scrollToFocus {
		s.viewport.SetYOffset(focusLine)
	}
}

// View renders the step view.
func (s *StepView) View() string {
	if s.v.TaskID == "" {
		return dimStyle.Render("No trajectory loaded.")
	}
	if s.v.Total == 0 {
		return dimStyle.Render("Trajectory has no steps.")
	}

	mode := "full view"
	if s.v.Mode == nav.ViewSingle {
		mode = "single step"
	}
	info := fmt.Sprintf("%s  %s", lipgloss.NewStyle().Bold(true).Render(s.v.TaskID), dimStyle.Render(mode))
	if f, ok := s.v.Focused(); ok {
		info += dimStyle.Render(fmt.Sprintf("  step %d/%d", f.Number, s.v.Total))
	}
	return info + "\n" + dimStyle.Render(strings.Repeat("─", s.width)) + "\n" + s.viewport.View()
}

func renderStep(step view.Step, width int) string {
	header := fmt.Sprintf("%s  Step %d  %s", roleLabel(step.Role), step.Number, step.Title)
	if m := step.Outcome.Marker(); m != "" {
		header += " " + m
	}
	hs := stepHeaderStyle
	if step.Focused {
		hs = focusedStepHeaderStyle
	}
	lines := []string{hs.Foreground(roleStyle(step.Role).GetForeground()).Width(width).Render(header)}

	body := lipgloss.NewStyle().Width(width)
	if step.Content != "" {
		lines = append(lines, body.Render(step.Content))
	}

	if step.ToolName != "" {
		call := argKeyStyle.Render("Tool call") + " " + step.ToolName
		if step.CallID != "" {
			call += dimStyle.Render(" (" + step.CallID + ")")
		}
		lines = append(lines, call)
		switch {
		case step.RawArguments != "":
			lines = append(lines, blockStyle.Width(width-2).Render(step.RawArguments))
		case len(step.Arguments) == 0:
			lines = append(lines, dimStyle.Render("  no arguments"))
		}
		for _, a := range step.Arguments {
			if a.Block {
				lines = append(lines, "  "+argKeyStyle.Render(a.Key+":"))
				lines = append(lines, blockStyle.Width(width-2).Render(a.Value))
				continue
			}
			lines = append(lines, body.Render("  "+argKeyStyle.Render(a.Key+":")+" "+a.Value))
		}
	}

	switch step.Outcome {
	case view.OutcomeSuccess:
		lines = append(lines, successStyle.Render("tool succeeded"))
	case view.OutcomeFailure:
		lines = append(lines, failureStyle.Render("tool reported an error"))
	}
	return strings.Join(lines, "\n")
}
