package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/nav"
)

func sampleTrajectory() *models.Trajectory {
	steps := []models.Step{
		{Role: models.RoleSystem, Content: "You are an agent."},
		{Role: models.RoleUser, Content: "Fix separability_matrix for nested models"},
		{Role: models.RoleAssistant, Content: "Looking at the code.", ToolCalls: []models.ToolCall{{
			ID: "toolu_01", Name: "str_replace_editor",
			Arguments: `{"command": "view", "path": "/repo/astropy/modeling/separable.py"}`,
		}}},
		{Role: models.RoleTool, Content: "file contents", Result: &models.ToolResult{Name: "str_replace_editor", ToolCallID: "toolu_01", Success: true}},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{
			ID: "toolu_02", Name: "str_replace_editor",
			Arguments: `{"command": "str_replace", "path": "/repo/astropy/modeling/separable.py", "old_str": "cright[-right.shape[0]:, -right.shape[1]:] = 1", "new_str": "cright[-right.shape[0]:, -right.shape[1]:] = right"}`,
		}}},
		{Role: models.RoleTool, Content: "edited", Result: &models.ToolResult{Name: "str_replace_editor", Success: true}},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{ID: "toolu_03", Name: "execute_bash", Arguments: `{"command": "python -m pytest"}`}}},
		{Role: models.RoleTool, Content: "Traceback (most recent call last)", Result: &models.ToolResult{Name: "execute_bash", Success: false}},
		{Role: "critic", Content: "The fix looks right."},
		{Role: models.RoleAssistant, Content: "The separability matrix now handles nested compound models correctly.\nDone."},
	}
	for i := range steps {
		steps[i].Index = i
	}
	return &models.Trajectory{TaskID: "astropy__astropy-12907", Steps: steps}
}

func TestBuildFullView(t *testing.T) {
	traj := sampleTrajectory()
	v := Build(traj, nav.State{StepIndex: 2, Mode: nav.ViewFull}, DefaultOptions())

	assert.Equal(t, "astropy__astropy-12907", v.TaskID)
	assert.Equal(t, 10, v.Total)
	require.Len(t, v.Steps, 10)
	for i, s := range v.Steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, i+1, s.Number)
	}
	focused, ok := v.Focused()
	require.True(t, ok)
	assert.Equal(t, 2, focused.Index)
	assert.True(t, v.TOC[2].Current)
	assert.False(t, v.TOC[0].Current)
}

func TestBuildSingleViewReturnsFocusedStep(t *testing.T) {
	traj := sampleTrajectory()
	c := nav.New([]models.TaskRecord{models.NewTaskRecord(traj.TaskID, true)}, staticLoader{traj})

	for j := 0; j < traj.Len(); j++ {
		c.JumpToStep(j)
		v := Build(c.Trajectory(), c.State(), DefaultOptions())
		focused, ok := v.Focused()
		require.True(t, ok)
		assert.Equal(t, j, focused.Index)
		assert.Equal(t, traj.Steps[j].Content, focused.Content)

		var idx []int
		for _, s := range v.Steps {
			idx = append(idx, s.Index)
		}
		var want []int
		for i := j - 1; i <= j+1; i++ {
			if i >= 0 && i < traj.Len() {
				want = append(want, i)
			}
		}
		assert.Equal(t, want, idx, "neighbours of step %d", j)
	}
}

type staticLoader struct{ traj *models.Trajectory }

func (l staticLoader) Load(string) (*models.Trajectory, error) { return l.traj, nil }

func TestBuildClampsOutOfRangeCursor(t *testing.T) {
	traj := sampleTrajectory()
	v := Build(traj, nav.State{StepIndex: 50, Mode: nav.ViewSingle}, DefaultOptions())
	focused, ok := v.Focused()
	require.True(t, ok)
	assert.Equal(t, 9, focused.Index)
	assert.Len(t, v.Steps, 2)
}

func TestBuildIsDeterministic(t *testing.T) {
	traj := sampleTrajectory()
	st := nav.State{StepIndex: 4, Mode: nav.ViewSingle}
	assert.Equal(t, Build(traj, st, DefaultOptions()), Build(traj, st, DefaultOptions()))
}

func TestBuildNilTrajectory(t *testing.T) {
	v := Build(nil, nav.State{TaskIndex: -1}, DefaultOptions())
	assert.Empty(t, v.Steps)
	assert.Empty(t, v.TOC)
	assert.Equal(t, nav.ViewFull, v.Mode)
	_, ok := v.Focused()
	assert.False(t, ok)
}

func TestTableOfContents(t *testing.T) {
	toc := TableOfContents(sampleTrajectory(), DefaultOptions())
	require.Len(t, toc, 10)

	tests := []struct {
		i       int
		title   string
		label   string
		outcome Outcome
	}{
		{0, "System Prompt", "Initial system prompt and configuration", OutcomeNone},
		{1, "User Prompt", "Uploaded files and issue description", OutcomeNone},
		{2, "Assistant Action", "str_replace_editor", OutcomeNone},
		{3, "Tool Result", "str_replace_editor", OutcomeSuccess},
		{7, "Tool Result", "execute_bash", OutcomeFailure},
		{8, "Critic", "The fix looks right.", OutcomeNone},
		{9, "Assistant Response", "The separability matrix now handles nest...", OutcomeNone},
	}
	for _, tt := range tests {
		e := toc[tt.i]
		assert.Equal(t, tt.i, e.Index)
		assert.Equal(t, tt.i+1, e.Number)
		assert.Equal(t, tt.title, e.Title, "step %d", tt.i)
		assert.Equal(t, tt.label, e.Label, "step %d", tt.i)
		assert.Equal(t, tt.outcome, e.Outcome, "step %d", tt.i)
	}
}

func TestRoleCountsSumToStepCount(t *testing.T) {
	traj := sampleTrajectory()
	counts := CountRoles(traj)

	assert.Equal(t, []RoleCount{
		{models.RoleSystem, 1},
		{models.RoleUser, 1},
		{models.RoleAssistant, 4},
		{models.RoleTool, 3},
		{"critic", 1},
	}, counts)

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, traj.Len(), total)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short\nsecond line", 40))
	assert.Equal(t, strings.Repeat("é", 5)+"...", Preview(strings.Repeat("é", 6), 5))
	assert.Equal(t, "exact", Preview("exact", 5))
	assert.Equal(t, "", Preview("", 40))
}

func TestRenderArguments(t *testing.T) {
	call := sampleTrajectory().Steps[4].ToolCalls[0]
	args, raw := RenderArguments(call, DefaultOptions().BlockArguments)
	assert.Empty(t, raw)
	require.Len(t, args, 4)
	assert.Equal(t, Argument{Key: "command", Value: "str_replace"}, args[0])
	assert.False(t, args[1].Block)
	assert.True(t, args[2].Block)
	assert.True(t, args[3].Block)

	args, raw = RenderArguments(models.ToolCall{Name: "think", Arguments: "not json"}, nil)
	assert.Nil(t, args)
	assert.Equal(t, "not json", raw)
}

func TestRoleName(t *testing.T) {
	assert.Equal(t, "Assistant", RoleName(models.RoleAssistant))
	assert.Equal(t, "Unknown", RoleName("unknown"))
}
