package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

// TaskList is the filtered task list in the left panel.
type TaskList struct {
	tasks        []models.TaskRecord
	total        int
	filters      dataset.Filters
	cursor       int
	current      int // index of the task whose trajectory is shown, -1 for none
	scrollOffset int
	height       int
	noData       func(taskID string) bool
}

// NewTaskList creates a new task list.
func NewTaskList() *TaskList {
	return &TaskList{current: -1, noData: func(string) bool { return false }}
}

// SetTasks replaces the filtered tasks. total is the unfiltered count.
func (tl *TaskList) SetTasks(tasks []models.TaskRecord, total int, filters dataset.Filters) {
	tl.tasks = tasks
	tl.total = total
	tl.filters = filters
	tl.cursor = clampIndex(tl.cursor, len(tasks))
	tl.ensureVisible()
}

// SetCurrent marks the task being viewed and moves the cursor onto it.
func (tl *TaskList) SetCurrent(i int) {
	tl.current = i
	if i >= 0 {
		tl.cursor = clampIndex(i, len(tl.tasks))
		tl.ensureVisible()
	}
}

// SetNoData sets the predicate marking tasks without a loadable trajectory.
func (tl *TaskList) SetNoData(fn func(taskID string) bool) {
	tl.noData = fn
}

// SetHeight sets the visible height.
func (tl *TaskList) SetHeight(h int) {
	tl.height = h
	tl.ensureVisible()
}

// Cursor returns the cursor index, or -1 when the list is empty.
func (tl *TaskList) Cursor() int {
	if len(tl.tasks) == 0 {
		return -1
	}
	return tl.cursor
}

// MoveUp moves the cursor up.
func (tl *TaskList) MoveUp() {
	if tl.cursor > 0 {
		tl.cursor--
		tl.ensureVisible()
	}
}

// MoveDown moves the cursor down.
func (tl *TaskList) MoveDown() {
	if tl.cursor < len(tl.tasks)-1 {
		tl.cursor++
		tl.ensureVisible()
	}
}

// Top moves the cursor to the first task.
func (tl *TaskList) Top() {
	tl.cursor = 0
	tl.ensureVisible()
}

// Bottom moves the cursor to the last task.
func (tl *TaskList) Bottom() {
	tl.cursor = max(len(tl.tasks)-1, 0)
	tl.ensureVisible()
}

// visibleRows is the number of task rows below the section header.
func (tl *TaskList) visibleRows() int {
	return max(tl.height-1, 1)
}

func (tl *TaskList) ensureVisible() {
	rows := tl.visibleRows()
	if tl.cursor < tl.scrollOffset {
		tl.scrollOffset = tl.cursor
	}
	if tl.cursor >= tl.scrollOffset+rows {
		tl.scrollOffset = tl.cursor - rows + 1
	}
	if tl.scrollOffset < 0 {
		tl.scrollOffset = 0
	}
}

// View renders the task list.
func (tl *TaskList) View(width int) string {
	header := fmt.Sprintf("Tasks (%d)", len(tl.tasks))
	if tl.filters.Active() {
		header = fmt.Sprintf("Tasks (%d of %d) %s", len(tl.tasks), tl.total, filterLabel(tl.filters))
	}
	lines := []string{sectionHeaderStyle.Render(ansi.Truncate(header, width, "…"))}

	if len(tl.tasks) == 0 {
		lines = append(lines, "", dimStyle.Render("No tasks match the current filters."),
			dimStyle.Render("Press / to change them."))
		return strings.Join(lines, "\n")
	}

	end := min(tl.scrollOffset+tl.visibleRows(), len(tl.tasks))
	for i := tl.scrollOffset; i < end; i++ {
		t := tl.tasks[i]
		marker := " "
		if i == tl.current {
			marker = "▶"
		}
		title := fmt.Sprintf("%s %s %s", marker, tl.taskBadge(t), t.ID)
		if maxWidth := width - 1; maxWidth > 0 {
			title = ansi.Truncate(title, maxWidth, "…")
		}

		line := title
		if i == tl.current {
			line = taskCurrentStyle.Render(title)
		}
		if i == tl.cursor {
			line = selectedItemStyle.Width(width).Render(title)
		}
		lines = append(lines, line)
	}

	if tl.scrollOffset > 0 {
		lines[0] += dimStyle.Render("  ▲")
	}
	if end < len(tl.tasks) {
		lines = append(lines, dimStyle.Render("  ▼ more"))
	}
	return strings.Join(lines, "\n")
}

func (tl *TaskList) taskBadge(t models.TaskRecord) string {
	if tl.noData(t.ID) {
		return taskNoDataStyle.Render("[·]")
	}
	if t.Resolved {
		return taskResolvedStyle.Render("[✓]")
	}
	return taskUnresolvedStyle.Render("[✗]")
}

func filterLabel(f dataset.Filters) string {
	var parts []string
	if f.Project != "" {
		parts = append(parts, "project="+f.Project)
	}
	if f.Status != "" && f.Status != models.StatusAll {
		parts = append(parts, "status="+string(f.Status))
	}
	return lipgloss.NewStyle().Foreground(colorYellow).Render(strings.Join(parts, " "))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
