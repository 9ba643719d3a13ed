// Package nav holds the navigation state of one viewer session: the
// filtered task list, the selected task and step, and the view mode.
package nav

import (
	"errors"
	"fmt"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

// ViewMode selects between the full step list and single-step focus.
type ViewMode string

const (
	ViewFull   ViewMode = "full"
	ViewSingle ViewMode = "single"
)

// ParseViewMode parses a mode name. Anything but "single" is full.
func ParseViewMode(s string) ViewMode {
	if s == string(ViewSingle) {
		return ViewSingle
	}
	return ViewFull
}

// ErrUnknownTask is returned by SelectTaskID for an ID that is not in
// the filtered list.
var ErrUnknownTask = errors.New("task is not in the current list")

// State is the navigation state rendered by the presentation layer.
// TaskIndex is -1 when the filtered list is empty.
type State struct {
	TaskIndex int
	StepIndex int
	Filters   dataset.Filters
	Mode      ViewMode
}

// Loader loads a task's trajectory. *dataset.Store satisfies it.
type Loader interface {
	Load(taskID string) (*models.Trajectory, error)
}

// Controller is the navigation state machine. It is not safe for
// concurrent use; each session owns one.
type Controller struct {
	loader   Loader
	all      []models.TaskRecord
	filtered []models.TaskRecord

	state   State
	traj    *models.Trajectory
	lastErr error

	unavailable map[string]error
}

// New creates a controller over tasks and selects the first one.
// A load failure for the first task is recorded in LastError.
func New(tasks []models.TaskRecord, loader Loader) *Controller {
	c := &Controller{
		loader:      loader,
		all:         tasks,
		filtered:    tasks,
		state:       State{TaskIndex: -1, Mode: ViewFull, Filters: dataset.Filters{Status: models.StatusAll}},
		unavailable: make(map[string]error),
	}
	c.fallback()
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Tasks returns the filtered task list. Callers must not modify it.
func (c *Controller) Tasks() []models.TaskRecord {
	return c.filtered
}

// All returns the unfiltered task list.
func (c *Controller) All() []models.TaskRecord {
	return c.all
}

// Empty reports whether the filters match no task.
func (c *Controller) Empty() bool {
	return len(c.filtered) == 0
}

// Current returns the selected task.
func (c *Controller) Current() (models.TaskRecord, bool) {
	if c.state.TaskIndex < 0 || c.state.TaskIndex >= len(c.filtered) {
		return models.TaskRecord{}, false
	}
	return c.filtered[c.state.TaskIndex], true
}

// Trajectory returns the loaded trajectory of the selected task, or nil.
func (c *Controller) Trajectory() *models.Trajectory {
	return c.traj
}

// LastError returns the error of the most recent failed transition.
// A successful load clears it.
func (c *Controller) LastError() error {
	return c.lastErr
}

// Unavailable returns the load error remembered for a task, if any.
func (c *Controller) Unavailable(taskID string) error {
	return c.unavailable[taskID]
}

// SelectTask selects the task at i, clamped to the filtered list. On
// success the step index resets to 0 and the mode to full. On failure
// the previous selection stays and the error is returned.
func (c *Controller) SelectTask(i int) error {
	if c.Empty() {
		return nil
	}
	i = clamp(i, 0, len(c.filtered)-1)
	task := c.filtered[i]

	traj, err := c.loader.Load(task.ID)
	if err != nil {
		c.lastErr = fmt.Errorf("failed to load %s: %w", task.ID, err)
		c.unavailable[task.ID] = err
		return c.lastErr
	}

	delete(c.unavailable, task.ID)
	c.traj = traj
	c.lastErr = nil
	c.state.TaskIndex = i
	c.state.StepIndex = 0
	c.state.Mode = ViewFull
	return nil
}

// SelectTaskID selects a task of the filtered list by ID.
func (c *Controller) SelectTaskID(taskID string) error {
	for i, t := range c.filtered {
		if t.ID == taskID {
			return c.SelectTask(i)
		}
	}
	return fmt.Errorf("%s: %w", taskID, ErrUnknownTask)
}

// NextTask selects the next loadable task. It stops at the last task;
// unloadable tasks on the way are skipped.
func (c *Controller) NextTask() error {
	return c.step(1)
}

// PrevTask selects the previous loadable task. It stops at the first task.
func (c *Controller) PrevTask() error {
	return c.step(-1)
}

func (c *Controller) step(dir int) error {
	var err error
	for i := c.state.TaskIndex + dir; i >= 0 && i < len(c.filtered); i += dir {
		if err = c.SelectTask(i); err == nil {
			return nil
		}
	}
	return err
}

// CanPrevTask reports whether a previous task exists.
func (c *Controller) CanPrevTask() bool {
	return !c.Empty() && c.state.TaskIndex > 0
}

// CanNextTask reports whether a next task exists.
func (c *Controller) CanNextTask() bool {
	return !c.Empty() && c.state.TaskIndex < len(c.filtered)-1
}

// JumpToStep focuses step j, clamped to the loaded trajectory, and
// switches to the single-step view.
func (c *Controller) JumpToStep(j int) {
	n := c.traj.Len()
	if n == 0 {
		return
	}
	c.state.StepIndex = clamp(j, 0, n-1)
	c.state.Mode = ViewSingle
}

// NextStep moves the step cursor forward by one.
func (c *Controller) NextStep() {
	if c.CanNextStep() {
		c.state.StepIndex++
	}
}

// PrevStep moves the step cursor back by one.
func (c *Controller) PrevStep() {
	if c.CanPrevStep() {
		c.state.StepIndex--
	}
}

// CanPrevStep reports whether a previous step exists.
func (c *Controller) CanPrevStep() bool {
	return c.traj.Len() > 0 && c.state.StepIndex > 0
}

// CanNextStep reports whether a next step exists.
func (c *Controller) CanNextStep() bool {
	return c.state.StepIndex < c.traj.Len()-1
}

// ShowAll returns to the full view. The step index is kept as cursor.
func (c *Controller) ShowAll() {
	c.state.Mode = ViewFull
}

// ToggleMode switches between the full and the single-step view.
func (c *Controller) ToggleMode() {
	if c.state.Mode == ViewSingle {
		c.ShowAll()
		return
	}
	c.JumpToStep(c.state.StepIndex)
}

// SetFilters recomputes the filtered list. The current task stays
// selected when it passes the new filters; otherwise the first task of
// the new list is selected.
func (c *Controller) SetFilters(f dataset.Filters) error {
	if f.Status == "" {
		f.Status = models.StatusAll
	}
	c.state.Filters = f
	return c.refilter()
}

// Reload replaces the underlying task set, keeping the filters and the
// current task where possible.
func (c *Controller) Reload(tasks []models.TaskRecord) error {
	c.all = tasks
	return c.refilter()
}

// ReloadTrajectory reloads the current task's trajectory after it changed
// on disk. The step index is clamped to the new length and the mode kept.
func (c *Controller) ReloadTrajectory() error {
	task, ok := c.Current()
	if !ok {
		return nil
	}
	traj, err := c.loader.Load(task.ID)
	if err != nil {
		c.lastErr = fmt.Errorf("failed to reload %s: %w", task.ID, err)
		c.unavailable[task.ID] = err
		return c.lastErr
	}
	delete(c.unavailable, task.ID)
	c.traj = traj
	c.lastErr = nil
	if n := traj.Len(); n == 0 {
		c.state.StepIndex = 0
	} else {
		c.state.StepIndex = clamp(c.state.StepIndex, 0, n-1)
	}
	return nil
}

func (c *Controller) refilter() error {
	current, hadCurrent := c.Current()
	c.filtered = dataset.Filter(c.all, c.state.Filters)

	if hadCurrent && c.traj != nil {
		for i, t := range c.filtered {
			if t.ID == current.ID {
				c.state.TaskIndex = i
				return nil
			}
		}
	}
	return c.fallback()
}

// fallback selects index 0 of the filtered list with a fresh step state.
// When index 0 cannot be loaded the selection still moves there with no
// trajectory.
func (c *Controller) fallback() error {
	c.traj = nil
	c.state.StepIndex = 0
	c.state.Mode = ViewFull
	if c.Empty() {
		c.state.TaskIndex = -1
		return nil
	}
	c.state.TaskIndex = 0
	return c.SelectTask(0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
