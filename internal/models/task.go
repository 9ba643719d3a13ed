package models

import "strings"

// Status is the resolution status of a benchmark task.
type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
)

// StatusFilter selects tasks by resolution status.
type StatusFilter string

const (
	StatusAll              StatusFilter = "all"
	StatusFilterResolved   StatusFilter = "resolved"
	StatusFilterUnresolved StatusFilter = "unresolved"
)

// ParseStatusFilter parses a user supplied status filter.
// The empty string means all tasks.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, true
	case "resolved":
		return StatusFilterResolved, true
	case "unresolved":
		return StatusFilterUnresolved, true
	}
	return StatusAll, false
}

// Matches reports whether a task with the given resolved flag passes the filter.
func (f StatusFilter) Matches(resolved bool) bool {
	switch f {
	case StatusFilterResolved:
		return resolved
	case StatusFilterUnresolved:
		return !resolved
	default:
		return true
	}
}

// Next cycles all -> unresolved -> resolved -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusFilterUnresolved:
		return StatusFilterResolved
	case StatusFilterResolved:
		return StatusAll
	default:
		return StatusFilterUnresolved
	}
}

// TaskRecord is one benchmark task as listed in the results summary.
// Identifiers have the form {org}__{repo}-{issue_number}.
type TaskRecord struct {
	ID       string `json:"instance_id" yaml:"instance_id"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
	Org      string `json:"org,omitempty" yaml:"org,omitempty"`
	Project  string `json:"project,omitempty" yaml:"project,omitempty"`
	Issue    string `json:"issue,omitempty" yaml:"issue,omitempty"`
}

// NewTaskRecord builds a record and derives org, project and issue from the ID.
func NewTaskRecord(id string, resolved bool) TaskRecord {
	t := TaskRecord{ID: id, Resolved: resolved}
	t.Org, t.Project, t.Issue, _ = SplitTaskID(id)
	return t
}

// Status returns the record's resolution status.
func (t TaskRecord) Status() Status {
	if t.Resolved {
		return StatusResolved
	}
	return StatusUnresolved
}

// PullURL returns the upstream pull request URL, or "" when the ID
// does not follow the {org}__{repo}-{issue} convention.
func (t TaskRecord) PullURL() string {
	if t.Org == "" || t.Project == "" || t.Issue == "" {
		return ""
	}
	return "https://github.com/" + t.Org + "/" + t.Project + "/pull/" + t.Issue
}

// SplitTaskID splits an ID like "astropy__astropy-12907" into
// ("astropy", "astropy", "12907"). Repo names may contain dashes; the
// issue number is the segment after the last one.
func SplitTaskID(id string) (org, project, issue string, ok bool) {
	org, rest, found := strings.Cut(id, "__")
	if !found || org == "" {
		return "", "", "", false
	}
	i := strings.LastIndex(rest, "-")
	if i <= 0 || i == len(rest)-1 {
		return org, rest, "", false
	}
	return org, rest[:i], rest[i+1:], true
}
