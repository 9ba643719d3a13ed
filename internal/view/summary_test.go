package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchfire-io/trajview/internal/models"
)

func TestSummarize(t *testing.T) {
	sum := Summarize(sampleTrajectory())

	assert.Equal(t, 10, sum.TotalSteps)
	assert.Equal(t, 4, sum.AssistantSteps)
	assert.Equal(t, []ActionCount{
		{Name: "str_replace_editor", Count: 2},
		{Name: "execute_bash", Count: 1},
	}, sum.Actions)
	assert.Equal(t, 2, sum.UniqueActions())
	assert.Equal(t, "str_replace_editor", sum.MostCommon().Name)
	assert.Equal(t, []string{"/repo/astropy/modeling/separable.py"}, sum.FilesModified)
	assert.Equal(t, 1, sum.ToolErrors)
}

func TestSummarizeTiesSortByName(t *testing.T) {
	traj := &models.Trajectory{Steps: []models.Step{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{Name: "think"}}},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{Name: "execute_bash"}}},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{Name: "str_replace_editor", Arguments: "{broken"}}},
	}}
	sum := Summarize(traj)
	assert.Equal(t, []ActionCount{{"execute_bash", 1}, {"str_replace_editor", 1}, {"think", 1}}, sum.Actions)
	assert.Empty(t, sum.FilesModified)
}

func TestSummarizeCountsOnlyFunctionCalls(t *testing.T) {
	traj := &models.Trajectory{Steps: []models.Step{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{Type: "function", Name: "execute_bash"},
			{Type: "code_interpreter", Name: "python"},
		}},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{Type: "retrieval", Name: "str_replace_editor", Arguments: `{"path": "/repo/a.py"}`},
		}},
	}}
	sum := Summarize(traj)
	assert.Equal(t, []ActionCount{{"execute_bash", 1}}, sum.Actions)
	assert.Empty(t, sum.FilesModified)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	assert.Equal(t, 0, sum.TotalSteps)
	assert.Equal(t, "none", sum.MostCommon().Name)
	assert.Zero(t, sum.UniqueActions())
}
