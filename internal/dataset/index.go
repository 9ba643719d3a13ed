package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/models"
)

// LoadResults reads the results summary and returns one task record per
// entry, in file order.
func LoadResults(fs afero.Fs, path string) (*models.ResultsSummary, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &DataFormatError{Path: path, Err: fmt.Errorf("results file not found")}
		}
		return nil, &DataFormatError{Path: path, Err: err}
	}
	summary, err := ParseResults(data)
	if err != nil {
		var df *DataFormatError
		if errors.As(err, &df) {
			df.Path = path
			return nil, df
		}
		return nil, &DataFormatError{Path: path, Err: err}
	}
	summary.Path = path
	return summary, nil
}

// ParseResults parses results summary content. Three shapes are accepted:
// a SWE-bench summary object with resolved_ids/unresolved_ids, an array of
// per-task records, or an object mapping task IDs to a status (a boolean,
// a status string, or a record). An ID listed under both resolved_ids and
// unresolved_ids is rejected.
func ParseResults(data []byte) (*models.ResultsSummary, error) {
	switch firstByte(data) {
	case '[':
		return parseRecordArray(data)
	case '{':
		members, err := decodeObject(data)
		if err != nil {
			return nil, err
		}
		if isSummaryObject(members) {
			return parseSummaryObject(members)
		}
		return parseStatusMapping(members)
	case 0:
		return nil, fmt.Errorf("empty results file")
	}
	return nil, fmt.Errorf("results must be a JSON object or array")
}

var summaryKeys = map[string]bool{
	"resolved_ids":   true,
	"unresolved_ids": true,
	"submitted_ids":  true,
}

func isSummaryObject(members []member) bool {
	for _, m := range members {
		if summaryKeys[m.key] {
			return true
		}
	}
	return false
}

func parseSummaryObject(members []member) (*models.ResultsSummary, error) {
	var (
		submitted, order []string
		counters         = map[string]int{}
	)
	resolved := map[string]bool{}
	unresolved := map[string]bool{}

	for _, m := range members {
		switch m.key {
		case "resolved_ids", "unresolved_ids", "submitted_ids":
			var ids []string
			if err := json.Unmarshal(m.value, &ids); err != nil {
				return nil, fmt.Errorf("%s: %w", m.key, err)
			}
			switch m.key {
			case "submitted_ids":
				submitted = ids
			case "resolved_ids":
				for _, id := range ids {
					resolved[id] = true
				}
				order = append(order, ids...)
			default:
				for _, id := range ids {
					unresolved[id] = true
				}
				order = append(order, ids...)
			}
		case "total_instances", "resolved_instances", "unresolved_instances":
			var n int
			if err := json.Unmarshal(m.value, &n); err != nil {
				return nil, fmt.Errorf("%s: %w", m.key, err)
			}
			counters[m.key] = n
		}
	}
	// A task has exactly one status.
	for id := range resolved {
		if unresolved[id] {
			return nil, &DataFormatError{Err: fmt.Errorf("%s is listed as both resolved and unresolved", id)}
		}
	}

	// submitted_ids fixes the order when present; IDs only listed under
	// resolved/unresolved follow in file order.
	ids := append(append([]string{}, submitted...), order...)
	seen := make(map[string]bool, len(ids))
	summary := &models.ResultsSummary{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		summary.Tasks = append(summary.Tasks, models.NewTaskRecord(id, resolved[id]))
	}

	fillCounters(summary, counters)
	return summary, nil
}

type taskEntry struct {
	InstanceID string `json:"instance_id"`
	TaskID     string `json:"task_id"`
	ID         string `json:"id"`
	Resolved   *bool  `json:"resolved"`
	Status     string `json:"status"`
}

func (e taskEntry) id() string {
	switch {
	case e.InstanceID != "":
		return e.InstanceID
	case e.TaskID != "":
		return e.TaskID
	}
	return e.ID
}

func (e taskEntry) resolved() (bool, error) {
	if e.Resolved != nil {
		return *e.Resolved, nil
	}
	return parseStatusString(e.Status)
}

func parseStatusString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resolved", "resolved_full", "true":
		return true, nil
	case "unresolved", "resolved_partial", "resolved_no", "false":
		return false, nil
	case "":
		return false, fmt.Errorf("missing resolution status")
	}
	return false, fmt.Errorf("unknown resolution status %q", s)
}

func parseRecordArray(data []byte) (*models.ResultsSummary, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	summary := &models.ResultsSummary{}
	for i, raw := range entries {
		var e taskEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, &DataFormatError{Line: i + 1, Err: err}
		}
		id := e.id()
		if id == "" {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("missing task identifier")}
		}
		resolved, err := e.resolved()
		if err != nil {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("%s: %w", id, err)}
		}
		summary.Tasks = append(summary.Tasks, models.NewTaskRecord(id, resolved))
	}
	fillCounters(summary, nil)
	return summary, nil
}

func parseStatusMapping(members []member) (*models.ResultsSummary, error) {
	summary := &models.ResultsSummary{}
	for i, m := range members {
		var flag bool
		if err := json.Unmarshal(m.value, &flag); err == nil {
			summary.Tasks = append(summary.Tasks, models.NewTaskRecord(m.key, flag))
			continue
		}
		var status string
		if err := json.Unmarshal(m.value, &status); err == nil {
			resolved, err := parseStatusString(status)
			if err != nil {
				return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("%s: %w", m.key, err)}
			}
			summary.Tasks = append(summary.Tasks, models.NewTaskRecord(m.key, resolved))
			continue
		}
		var e taskEntry
		if err := json.Unmarshal(m.value, &e); err != nil {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("%s: %w", m.key, err)}
		}
		resolved, err := e.resolved()
		if err != nil {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("%s: %w", m.key, err)}
		}
		summary.Tasks = append(summary.Tasks, models.NewTaskRecord(m.key, resolved))
	}
	fillCounters(summary, nil)
	return summary, nil
}

// fillCounters uses the file's counters when given and derives the rest.
func fillCounters(s *models.ResultsSummary, counters map[string]int) {
	var resolved int
	for _, t := range s.Tasks {
		if t.Resolved {
			resolved++
		}
	}
	s.TotalInstances = len(s.Tasks)
	s.ResolvedInstances = resolved
	s.UnresolvedInstances = len(s.Tasks) - resolved

	if n, ok := counters["total_instances"]; ok {
		s.TotalInstances = n
	}
	if n, ok := counters["resolved_instances"]; ok {
		s.ResolvedInstances = n
	}
	if n, ok := counters["unresolved_instances"]; ok {
		s.UnresolvedInstances = n
	}
}

// Filters narrows the task list. Zero values match everything.
type Filters struct {
	Project string
	Status  models.StatusFilter
}

// Match reports whether a task passes both filters.
func (f Filters) Match(t models.TaskRecord) bool {
	if f.Project != "" && !strings.EqualFold(f.Project, t.Project) {
		return false
	}
	return f.Status.Matches(t.Resolved)
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return f.Project != "" || (f.Status != "" && f.Status != models.StatusAll)
}

// Filter returns the tasks matching f, preserving their relative order.
// The input slice is never modified.
func Filter(tasks []models.TaskRecord, f Filters) []models.TaskRecord {
	out := make([]models.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Projects returns the sorted distinct project names of tasks.
func Projects(tasks []models.TaskRecord) []string {
	seen := map[string]bool{}
	var projects []string
	for _, t := range tasks {
		if t.Project == "" || seen[t.Project] {
			continue
		}
		seen[t.Project] = true
		projects = append(projects, t.Project)
	}
	sort.Strings(projects)
	return projects
}
