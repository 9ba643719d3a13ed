package view

import (
	"encoding/json"
	"sort"

	"github.com/watchfire-io/trajview/internal/models"
)

// editorTool is the file editing tool whose path argument counts as a
// modified file.
const editorTool = "str_replace_editor"

// ActionCount is how often the assistant called one tool.
type ActionCount struct {
	Name  string
	Count int
}

// Summary aggregates a trajectory's actions.
type Summary struct {
	AssistantSteps int
	TotalSteps     int
	Actions        []ActionCount // count descending, then name
	FilesModified  []string      // sorted
	ToolErrors     int
}

// UniqueActions returns the number of distinct tools called.
func (s Summary) UniqueActions() int {
	return len(s.Actions)
}

// MostCommon returns the most frequent action, or "none".
func (s Summary) MostCommon() ActionCount {
	if len(s.Actions) == 0 {
		return ActionCount{Name: "none"}
	}
	return s.Actions[0]
}

// Summarize counts the assistant's function calls, the files it edited
// and the failed tool results. Calls of any other type are not actions.
func Summarize(traj *models.Trajectory) Summary {
	sum := Summary{TotalSteps: traj.Len()}
	if traj == nil {
		return sum
	}

	counts := make(map[string]int)
	files := make(map[string]bool)
	for i := range traj.Steps {
		s := &traj.Steps[i]
		switch s.Role {
		case models.RoleAssistant:
			sum.AssistantSteps++
			for _, call := range s.ToolCalls {
				if call.Name == "" || !call.IsFunction() {
					continue
				}
				counts[call.Name]++
				if call.Name == editorTool {
					if p := editedPath(call.Arguments); p != "" {
						files[p] = true
					}
				}
			}
		case models.RoleTool:
			if s.Result != nil && !s.Result.Success {
				sum.ToolErrors++
			}
		}
	}

	for name, n := range counts {
		sum.Actions = append(sum.Actions, ActionCount{Name: name, Count: n})
	}
	sort.Slice(sum.Actions, func(i, j int) bool {
		a, b := sum.Actions[i], sum.Actions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	for f := range files {
		sum.FilesModified = append(sum.FilesModified, f)
	}
	sort.Strings(sum.FilesModified)
	return sum
}

func editedPath(arguments string) string {
	var args struct {
		Path string `json:"path"`
	}
	if json.Unmarshal([]byte(arguments), &args) != nil {
		return ""
	}
	return args.Path
}
