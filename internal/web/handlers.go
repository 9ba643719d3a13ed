package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/nav"
	"github.com/watchfire-io/trajview/internal/view"
)

// query is the navigation state carried in the URL.
type query struct {
	Project string
	Status  models.StatusFilter
	Task    string
	Step    int
	HasStep bool
	Mode    nav.ViewMode
}

func parseQuery(r *http.Request) (query, []string) {
	v := r.URL.Query()
	var problems []string

	q := query{
		Project: v.Get("project"),
		Task:    v.Get("task"),
		Mode:    nav.ParseViewMode(v.Get("mode")),
	}
	status, ok := models.ParseStatusFilter(v.Get("status"))
	if !ok {
		problems = append(problems, fmt.Sprintf("Unknown status %q, showing all tasks.", v.Get("status")))
	}
	q.Status = status

	if s := v.Get("step"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Invalid step %q.", s))
		} else {
			q.Step, q.HasStep = n, true
		}
	}
	return q, problems
}

// link returns the page URL for a navigation state.
func link(st nav.State, taskID string) string {
	v := url.Values{}
	if st.Filters.Project != "" {
		v.Set("project", st.Filters.Project)
	}
	if st.Filters.Status != "" && st.Filters.Status != models.StatusAll {
		v.Set("status", string(st.Filters.Status))
	}
	if taskID != "" {
		v.Set("task", taskID)
		v.Set("step", strconv.Itoa(st.StepIndex))
	}
	if st.Mode == nav.ViewSingle {
		v.Set("mode", string(nav.ViewSingle))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

type taskRow struct {
	Task    models.TaskRecord
	Current bool
	Missing bool
	Link    string
}

type stepLink struct {
	view.TOCEntry
	Link string
}

type pageData struct {
	Summary  *models.ResultsSummary
	Projects []string
	Filters  dataset.Filters
	Statuses []models.StatusFilter

	Tasks    []taskRow
	Empty    string
	Task     *models.TaskRecord
	View     view.View
	Contents []stepLink
	Patch    *models.Prediction
	Errors   []string

	// Navigation links, empty when the move is unavailable.
	PrevTask, NextTask string
	PrevStep, NextStep string
	Toggle             string
	Raw                string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	q, problems := parseQuery(r)

	ctrl := nav.New(ds.Tasks(), ds.Store)
	err := ctrl.SetFilters(dataset.Filters{Project: q.Project, Status: q.Status})
	if q.Task != "" {
		err = ctrl.SelectTaskID(q.Task)
	}
	if err == nil && q.HasStep && ctrl.Trajectory() != nil {
		ctrl.JumpToStep(q.Step)
		if q.Mode != nav.ViewSingle {
			ctrl.ShowAll()
		}
	} else if err == nil && q.Mode == nav.ViewSingle {
		ctrl.JumpToStep(0)
	}
	if err != nil {
		problems = append(problems, err.Error())
	}

	data := s.buildPage(ds, ctrl)
	data.Errors = append(data.Errors, problems...)
	render(w, tmplIndex, data)
}

func (s *Server) buildPage(ds *dataset.Dataset, ctrl *nav.Controller) pageData {
	st := ctrl.State()
	data := pageData{
		Summary:  ds.Summary,
		Projects: dataset.Projects(ctrl.All()),
		Filters:  st.Filters,
		Statuses: []models.StatusFilter{models.StatusAll, models.StatusFilterResolved, models.StatusFilterUnresolved},
		View:     view.Build(ctrl.Trajectory(), st, s.viewOpts),
	}

	for i, t := range ctrl.Tasks() {
		rowState := nav.State{Filters: st.Filters}
		data.Tasks = append(data.Tasks, taskRow{
			Task:    t,
			Current: i == st.TaskIndex,
			Missing: ds.IsMissing(t.ID) || ctrl.Unavailable(t.ID) != nil,
			Link:    link(rowState, t.ID),
		})
	}
	if ctrl.Empty() {
		data.Empty = dataset.ErrFilterYieldsEmpty.Error()
		return data
	}

	cur, _ := ctrl.Current()
	data.Task = &cur
	if p, ok := ds.Prediction(cur.ID); ok {
		data.Patch = &p
	}
	data.Raw = "/raw/" + url.PathEscape(cur.ID)

	tasks := ctrl.Tasks()
	if ctrl.CanPrevTask() {
		data.PrevTask = link(nav.State{Filters: st.Filters, Mode: st.Mode}, tasks[st.TaskIndex-1].ID)
	}
	if ctrl.CanNextTask() {
		data.NextTask = link(nav.State{Filters: st.Filters, Mode: st.Mode}, tasks[st.TaskIndex+1].ID)
	}
	if ctrl.Trajectory() == nil {
		return data
	}

	at := func(step int, mode nav.ViewMode) string {
		next := st
		next.StepIndex = step
		next.Mode = mode
		return link(next, cur.ID)
	}
	if ctrl.CanPrevStep() {
		data.PrevStep = at(st.StepIndex-1, st.Mode)
	}
	if ctrl.CanNextStep() {
		data.NextStep = at(st.StepIndex+1, st.Mode)
	}
	if st.Mode == nav.ViewSingle {
		data.Toggle = at(st.StepIndex, nav.ViewFull)
	} else {
		data.Toggle = at(st.StepIndex, nav.ViewSingle)
	}
	for _, e := range data.View.TOC {
		data.Contents = append(data.Contents, stepLink{TOCEntry: e, Link: at(e.Index, nav.ViewSingle)})
	}
	return data
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task")
	data, _, err := s.Dataset().Store.Raw(taskID)
	switch {
	case dataset.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		s.logger.Warn("raw download failed", "task", taskID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset.ExportFileName(taskID)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %d tasks\n", len(s.Dataset().Tasks()))
}
