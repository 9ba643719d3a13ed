package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/nav"
	"github.com/watchfire-io/trajview/internal/view"
	"github.com/watchfire-io/trajview/internal/watcher"
)

const (
	errorTimeout  = 5 * time.Second
	noticeTimeout = 4 * time.Second
)

// Model is the root Bubbletea model for the TUI.
type Model struct {
	opts      Options
	fs        afero.Fs
	logger    *slog.Logger
	storeOpts []dataset.StoreOption
	viewOpts  view.Options

	// Dataset and navigation state
	ds   *dataset.Dataset
	ctrl *nav.Controller
	v    view.View

	// UI state
	leftTab       int     // 0=Tasks, 1=Contents
	rightTab      int     // 0=Steps, 1=Summary, 2=Patch
	focusedPanel  int     // 0=left, 1=right
	activeOverlay overlayKind
	splitRatio    float64 // Default 0.35
	width         int
	height        int

	// Status display
	err     error
	loadErr error // initial load failure, shown until a reload succeeds
	notice  string

	// Child components
	taskList   *TaskList
	contents   *ContentsList
	stepView   *StepView
	patchView  *PatchView
	filterForm *FilterForm

	// Program reference for goroutine Send()
	program *programRef

	watcher  *watcher.Watcher
	watchCtx context.Context

	dragging bool
}

// NewModel creates the initial TUI model.
func NewModel(opts Options, program *programRef) Model {
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if opts.FS == nil {
		opts.FS = config.FS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		opts:   opts,
		fs:     opts.FS,
		logger: opts.Logger.With("component", "tui"),
		storeOpts: []dataset.StoreOption{
			dataset.WithErrorKeywords(opts.Settings.Viewer.ErrorKeywords),
			dataset.WithLogger(opts.Logger),
		},
		viewOpts:   view.OptionsFromSettings(opts.Settings.Viewer),
		splitRatio: 0.35,
		taskList:   NewTaskList(),
		contents:   NewContentsList(),
		stepView:   NewStepView(),
		patchView:  NewPatchView(),
		program:    program,
		watchCtx:   context.Background(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{openDatasetCmd(m.fs, m.opts.Paths, m.storeOpts...)}
	if m.watcher != nil {
		cmds = append(cmds, subscribeWatcherCmd(m.watchCtx, m.watcher, m.program))
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	// ── Key events ─────────────────────────────────────────────────
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	// ── Mouse events ───────────────────────────────────────────────
	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	// ── Dataset ────────────────────────────────────────────────────
	case DatasetLoadedMsg:
		cmd := m.applyDataset(msg.Dataset)
		return m, cmd

	case DatasetChangedMsg:
		cmd := m.handleDatasetChange(msg.Event)
		return m, cmd

	case ExportedMsg:
		m.notice = fmt.Sprintf("Exported %s to %s", msg.TaskID, msg.Path)
		m.logger.Info("trajectory exported", "task", msg.TaskID, "path", msg.Path)
		return m, clearNoticeAfter(noticeTimeout)

	// ── Status ─────────────────────────────────────────────────────
	case ErrorMsg:
		if m.ctrl == nil {
			m.loadErr = msg.Err
		}
		cmd := m.showError(msg.Err)
		return m, cmd

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// applyDataset installs a freshly loaded snapshot. The first snapshot
// creates the controller; later ones reload it in place.
func (m *Model) applyDataset(ds *dataset.Dataset) tea.Cmd {
	m.ds = ds
	m.loadErr = nil

	var err error
	if m.ctrl == nil {
		m.ctrl = nav.New(ds.Tasks(), ds.Store)
		err = m.ctrl.LastError()
		if m.opts.Filters.Active() {
			err = m.ctrl.SetFilters(m.opts.Filters)
		}
	} else {
		err = m.ctrl.Reload(ds.Tasks())
		if err == nil {
			err = m.ctrl.ReloadTrajectory()
		}
	}

	ctrl := m.ctrl
	m.taskList.SetNoData(func(id string) bool {
		return ds.IsMissing(id) || ctrl.Unavailable(id) != nil
	})
	m.refresh()

	m.logger.Debug("dataset applied", "tasks", len(ds.Tasks()), "missing", len(ds.Missing))
	if err != nil {
		return m.showError(err)
	}
	return nil
}

func (m *Model) handleDatasetChange(ev watcher.Event) tea.Cmd {
	m.logger.Debug("dataset changed", "event", ev.Type.String(), "task", ev.TaskID)
	if m.ds == nil {
		return openDatasetCmd(m.fs, m.opts.Paths, m.storeOpts...)
	}
	if ev.Type != watcher.EventTrajectoryChanged {
		return refreshDatasetCmd(m.fs, m.ds)
	}

	m.ds.Store.Invalidate(ev.TaskID)
	if m.ds.IsMissing(ev.TaskID) {
		// A directory appeared for a task the results listed without one.
		return refreshDatasetCmd(m.fs, m.ds)
	}
	if cur, ok := m.ctrl.Current(); ok && cur.ID == ev.TaskID {
		err := m.ctrl.ReloadTrajectory()
		m.refresh()
		if err != nil {
			return m.showError(err)
		}
	}
	return nil
}

// refresh rebuilds the view model and pushes it into the components.
func (m *Model) refresh() {
	if m.ctrl == nil {
		return
	}
	st := m.ctrl.State()
	m.v = view.Build(m.ctrl.Trajectory(), st, m.viewOpts)

	m.taskList.SetTasks(m.ctrl.Tasks(), len(m.ctrl.All()), st.Filters)
	m.taskList.SetCurrent(st.TaskIndex)
	m.contents.SetEntries(m.v.TOC, m.v.RoleCounts)
	m.stepView.SetView(m.v)

	cur, ok := m.ctrl.Current()
	if !ok {
		m.patchView.SetPrediction("", nil)
		return
	}
	if pred, found := m.ds.Prediction(cur.ID); found {
		m.patchView.SetPrediction(cur.ID, &pred)
	} else {
		m.patchView.SetPrediction(cur.ID, nil)
	}
}

func (m *Model) showError(err error) tea.Cmd {
	m.err = err
	m.logger.Warn("tui error", "error", err)
	return clearErrorAfter(errorTimeout)
}

// navigate runs a controller transition and refreshes the view.
func (m *Model) navigate(fn func() error) tea.Cmd {
	err := fn()
	m.refresh()
	if err != nil {
		return m.showError(err)
	}
	return nil
}

// ── Key handling ─────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Overlay captures everything
	if m.activeOverlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	// Global shortcuts (always work)
	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, globalKeys.Tab):
		m.focusedPanel = 1 - m.focusedPanel
		return nil

	case key.Matches(msg, globalKeys.Reload):
		if m.ds == nil {
			return openDatasetCmd(m.fs, m.opts.Paths, m.storeOpts...)
		}
		return refreshDatasetCmd(m.fs, m.ds)
	}

	if m.ctrl == nil {
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Filter):
		m.openFilterForm()
		return nil

	case key.Matches(msg, globalKeys.Export):
		return m.exportCurrent()

	case key.Matches(msg, tabSwitchKeys.Tasks):
		m.leftTab, m.focusedPanel = 0, 0
		return nil
	case key.Matches(msg, tabSwitchKeys.Contents):
		m.leftTab, m.focusedPanel = 1, 0
		return nil
	case key.Matches(msg, tabSwitchKeys.Steps):
		m.rightTab, m.focusedPanel = 0, 1
		return nil
	case key.Matches(msg, tabSwitchKeys.Summary):
		m.rightTab, m.focusedPanel = 1, 1
		return nil
	case key.Matches(msg, tabSwitchKeys.Patch):
		m.rightTab, m.focusedPanel = 2, 1
		return nil

	case key.Matches(msg, navKeys.PrevTask):
		return m.navigate(m.ctrl.PrevTask)
	case key.Matches(msg, navKeys.NextTask):
		return m.navigate(m.ctrl.NextTask)
	case key.Matches(msg, navKeys.PrevStep):
		m.ctrl.PrevStep()
		m.refresh()
		return nil
	case key.Matches(msg, navKeys.NextStep):
		m.ctrl.NextStep()
		m.refresh()
		return nil
	case key.Matches(msg, navKeys.Toggle):
		m.ctrl.ToggleMode()
		m.refresh()
		return nil
	}

	// Route to focused panel
	if m.focusedPanel == 0 {
		if m.leftTab == 0 {
			return m.handleTaskListKey(msg)
		}
		return m.handleContentsKey(msg)
	}
	return m.handleRightPanelKey(msg)
}

func (m *Model) handleTaskListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, listKeys.Up):
		m.taskList.MoveUp()
	case key.Matches(msg, listKeys.Down):
		m.taskList.MoveDown()
	case key.Matches(msg, listKeys.Top):
		m.taskList.Top()
	case key.Matches(msg, listKeys.Bottom):
		m.taskList.Bottom()
	case key.Matches(msg, listKeys.Enter):
		i := m.taskList.Cursor()
		if i < 0 {
			return nil
		}
		return m.navigate(func() error { return m.ctrl.SelectTask(i) })
	}
	return nil
}

func (m *Model) handleContentsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, listKeys.Up):
		m.contents.MoveUp()
	case key.Matches(msg, listKeys.Down):
		m.contents.MoveDown()
	case key.Matches(msg, listKeys.Top):
		m.contents.Top()
	case key.Matches(msg, listKeys.Bottom):
		m.contents.Bottom()
	case key.Matches(msg, listKeys.Enter):
		j := m.contents.Selected()
		if j < 0 {
			return nil
		}
		m.ctrl.JumpToStep(j)
		m.refresh()
		m.rightTab = 0
	}
	return nil
}

func (m *Model) handleRightPanelKey(msg tea.KeyMsg) tea.Cmd {
	type scroller interface {
		ScrollUp(int)
		ScrollDown(int)
		PageUp()
		PageDown()
	}
	var s scroller
	switch m.rightTab {
	case 0:
		s = m.stepView
	case 2:
		s = m.patchView
	default:
		return nil
	}

	switch {
	case key.Matches(msg, scrollKeys.Up):
		s.ScrollUp(1)
	case key.Matches(msg, scrollKeys.Down):
		s.ScrollDown(1)
	case key.Matches(msg, scrollKeys.PageUp):
		s.PageUp()
	case key.Matches(msg, scrollKeys.PageDown):
		s.PageDown()
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch m.activeOverlay {
	case overlayHelp:
		if key.Matches(msg, filterKeys.Cancel) || key.Matches(msg, globalKeys.Help) {
			m.activeOverlay = overlayNone
		}
		return nil

	case overlayFilter:
		return m.handleFilterKey(msg)
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	ff := m.filterForm

	if ff.IsEditing() {
		switch msg.Type {
		case tea.KeyEnter:
			if err := ff.FinishEdit(); err != nil {
				return m.showError(err)
			}
			return nil
		case tea.KeyEsc:
			ff.CancelEdit()
			return nil
		}
		input := ff.InputModel()
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, filterKeys.Cancel):
		m.closeFilterForm()
	case key.Matches(msg, filterKeys.Apply):
		f := ff.Filters()
		m.closeFilterForm()
		m.logger.Debug("filters applied", "project", f.Project, "status", string(f.Status))
		return m.navigate(func() error { return m.ctrl.SetFilters(f) })
	case key.Matches(msg, filterKeys.Up):
		ff.MoveUp()
	case key.Matches(msg, filterKeys.Down):
		ff.MoveDown()
	case key.Matches(msg, filterKeys.Cycle):
		ff.Cycle()
	case key.Matches(msg, filterKeys.Edit):
		if !ff.StartEdit() {
			ff.Cycle()
		}
	case key.Matches(msg, filterKeys.Clear):
		ff.Clear()
	}
	return nil
}

func (m *Model) openFilterForm() {
	width := min(max(m.width-20, 30), 70)
	m.filterForm = NewFilterForm(m.ctrl.State().Filters, dataset.Projects(m.ctrl.All()), width)
	m.activeOverlay = overlayFilter
}

func (m *Model) closeFilterForm() {
	m.filterForm = nil
	m.activeOverlay = overlayNone
}

func (m *Model) exportCurrent() tea.Cmd {
	cur, ok := m.ctrl.Current()
	if !ok {
		return nil
	}
	dir, err := config.ExportDir(m.opts.Settings)
	if err != nil {
		return m.showError(err)
	}
	return exportCmd(m.fs, m.ds.Store, dir, cur.ID)
}

// doQuit performs clean shutdown: clear program ref, then quit.
func (m *Model) doQuit() tea.Cmd {
	m.program.Clear()
	return tea.Quit
}

// ── Mouse handling ───────────────────────────────────────────────

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.activeOverlay != overlayNone || m.ctrl == nil {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		layout := computeLayout(m.width, m.height, m.splitRatio)
		x := msg.X

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
			return nil
		case tea.MouseButtonWheelDown:
			m.scroll(1)
			return nil
		}

		// Check if clicking on divider
		if x >= layout.dividerCol-1 && x <= layout.dividerCol+1 {
			m.dragging = true
			return nil
		}

		if x < layout.dividerCol {
			m.focusedPanel = 0
		} else {
			m.focusedPanel = 1
		}

		// Header click switches tabs
		if msg.Y == 0 {
			m.handleHeaderClick(x)
		}

	case tea.MouseActionRelease:
		m.dragging = false

	case tea.MouseActionMotion:
		if m.dragging {
			ratio := float64(msg.X) / float64(m.width)
			m.splitRatio = min(max(ratio, 0.2), 0.8)
			m.updateDimensions()
		}
	}
	return nil
}

func (m *Model) scroll(dir int) {
	if m.focusedPanel == 0 {
		switch {
		case m.leftTab == 0 && dir < 0:
			m.taskList.MoveUp()
		case m.leftTab == 0:
			m.taskList.MoveDown()
		case dir < 0:
			m.contents.MoveUp()
		default:
			m.contents.MoveDown()
		}
		return
	}
	switch {
	case m.rightTab == 0 && dir < 0:
		m.stepView.ScrollUp(3)
	case m.rightTab == 0:
		m.stepView.ScrollDown(3)
	case m.rightTab == 2 && dir < 0:
		m.patchView.ScrollUp(3)
	case m.rightTab == 2:
		m.patchView.ScrollDown(3)
	}
}

func (m *Model) handleHeaderClick(x int) {
	// Left tabs follow " ● trajview  "; right tabs end before the counters.
	leftStart := lipgloss.Width(" ● trajview  ")
	if i := tabAt(leftTabNames, x-leftStart); i >= 0 {
		m.leftTab, m.focusedPanel = i, 0
		return
	}
	right := renderTabs(rightTabNames, m.rightTab) + "  " + renderCounters(m.summary()) + " "
	rightStart := m.width - lipgloss.Width(right)
	if i := tabAt(rightTabNames, x-rightStart); i >= 0 {
		m.rightTab, m.focusedPanel = i, 1
	}
}

// tabAt returns the tab under column x of a rendered tab row, or -1.
func tabAt(names []string, x int) int {
	if x < 0 {
		return -1
	}
	pos := 0
	for i, name := range names {
		w := lipgloss.Width(name)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + lipgloss.Width(" | ")
	}
	return -1
}

// ── Dimension helpers ────────────────────────────────────────────

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	m.taskList.SetHeight(layout.innerHeight)
	m.contents.SetHeight(layout.innerHeight)
	m.stepView.SetSize(layout.rightInner, layout.innerHeight)
	m.patchView.SetSize(layout.rightInner, layout.innerHeight)
}

func (m Model) summary() *models.ResultsSummary {
	if m.ds == nil {
		return nil
	}
	return m.ds.Summary
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	// Minimum size check
	if m.width < 80 || m.height < 24 {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					"Need 80x24, have "+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	// Not loaded yet
	if m.ctrl == nil {
		center := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center)
		if m.loadErr != nil {
			return center.Render(lipgloss.JoinVertical(lipgloss.Center,
				lipgloss.NewStyle().Foreground(colorRed).Render(m.loadErr.Error()),
				dimStyle.Render("Press r to retry, q to quit"),
			))
		}
		return center.Foreground(colorDim).Render("Loading dataset...")
	}

	layout := computeLayout(m.width, m.height, m.splitRatio)

	header := renderHeader(m.summary(), m.leftTab, m.rightTab, m.width)
	leftContent := m.renderLeftPanel(layout.leftInner)
	rightContent := m.renderRightPanel(layout.rightInner)
	panels := renderPanels(leftContent, rightContent, layout, m.focusedPanel)
	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, panels, statusBar)

	var overlayContent string
	switch m.activeOverlay {
	case overlayHelp:
		overlayContent = renderHelp(m.width)
	case overlayFilter:
		if m.filterForm != nil {
			overlayContent = m.filterForm.View()
		}
	}
	if overlayContent != "" {
		view = placeOverlay(view, overlayContent, m.width, m.height)
	}

	return view
}

func (m Model) renderLeftPanel(width int) string {
	if m.leftTab == 1 {
		return m.contents.View(width)
	}
	return m.taskList.View(width)
}

func (m Model) renderRightPanel(width int) string {
	switch m.rightTab {
	case 1:
		var task *models.TaskRecord
		if cur, ok := m.ctrl.Current(); ok {
			task = &cur
		}
		return renderSummary(task, m.v, width)
	case 2:
		return m.patchView.View()
	}
	if err := m.ctrl.LastError(); err != nil && m.ctrl.Trajectory() == nil && !m.ctrl.Empty() {
		return failureStyle.Render(err.Error())
	}
	return m.stepView.View()
}
