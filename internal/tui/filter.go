package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

const (
	filterFieldProject = iota
	filterFieldStatus
	filterFieldCount
)

// FilterForm edits the project and status filters in an overlay.
type FilterForm struct {
	project  string
	status   models.StatusFilter
	projects []string
	cursor   int
	editing  bool
	input    textinput.Model
	width    int
}

// NewFilterForm creates a form prefilled with f. projects lists the
// valid project names.
func NewFilterForm(f dataset.Filters, projects []string, width int) *FilterForm {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Placeholder = "any project"
	ti.Width = max(width-16, 10)

	status := f.Status
	if status == "" {
		status = models.StatusAll
	}
	return &FilterForm{
		project:  f.Project,
		status:   status,
		projects: projects,
		input:    ti,
		width:    width,
	}
}

// MoveUp moves cursor up.
func (f *FilterForm) MoveUp() {
	if !f.editing && f.cursor > 0 {
		f.cursor--
	}
}

// MoveDown moves cursor down.
func (f *FilterForm) MoveDown() {
	if !f.editing && f.cursor < filterFieldCount-1 {
		f.cursor++
	}
}

// Cycle advances the status filter when the status field is selected.
func (f *FilterForm) Cycle() bool {
	if f.editing || f.cursor != filterFieldStatus {
		return false
	}
	f.status = f.status.Next()
	return true
}

// StartEdit begins inline editing of the project field.
func (f *FilterForm) StartEdit() bool {
	if f.cursor != filterFieldProject {
		return false
	}
	f.editing = true
	f.input.SetValue(f.project)
	f.input.CursorEnd()
	f.input.Focus()
	return true
}

// FinishEdit confirms the project edit. Unknown project names are rejected.
func (f *FilterForm) FinishEdit() error {
	if !f.editing {
		return nil
	}
	value := strings.TrimSpace(f.input.Value())
	if value != "" && !f.knownProject(value) {
		return fmt.Errorf("unknown project %q", value)
	}
	f.editing = false
	f.input.Blur()
	f.project = value
	return nil
}

// CancelEdit cancels the current edit.
func (f *FilterForm) CancelEdit() {
	f.editing = false
	f.input.Blur()
}

// Clear resets both filters.
func (f *FilterForm) Clear() {
	f.CancelEdit()
	f.project = ""
	f.status = models.StatusAll
}

// IsEditing returns whether the project field is being edited.
func (f *FilterForm) IsEditing() bool {
	return f.editing
}

// InputModel returns the text input model for Update forwarding.
func (f *FilterForm) InputModel() *textinput.Model {
	return &f.input
}

// Filters returns the filters the form describes.
func (f *FilterForm) Filters() dataset.Filters {
	return dataset.Filters{Project: f.project, Status: f.status}
}

func (f *FilterForm) knownProject(name string) bool {
	for _, p := range f.projects {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// View renders the filter form.
func (f *FilterForm) View() string {
	project := filterValueStyle.Render(f.project)
	if f.project == "" {
		project = dimStyle.Render("(any)")
	}
	if f.editing {
		project = f.input.View()
	}
	status := filterStatusStyle.Render(string(f.status))

	rows := []string{
		filterLabelStyle.Render("Project:") + " " + project,
		filterLabelStyle.Render("Status:") + " " + status + dimStyle.Render("  (Space to cycle)"),
	}
	for i := range rows {
		if i == f.cursor {
			rows[i] = filterCursorStyle.Width(f.width).Render(rows[i])
		}
	}

	hint := dimStyle.Render(fmt.Sprintf("%d projects: %s", len(f.projects), projectHint(f.projects, f.width)))
	body := append(rows, "", hint)
	return overlayBox("Filter tasks", body, "Enter edit · Ctrl+s apply · x clear · Esc cancel", f.width+6)
}

func projectHint(projects []string, width int) string {
	s := strings.Join(projects, ", ")
	if r := []rune(s); len(r) > width {
		s = string(r[:max(width-1, 0)]) + "…"
	}
	return s
}
