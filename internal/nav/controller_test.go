package nav

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

type fakeLoader struct {
	steps map[string]int
	loads []string
}

func (f *fakeLoader) Load(taskID string) (*models.Trajectory, error) {
	f.loads = append(f.loads, taskID)
	n, ok := f.steps[taskID]
	if !ok {
		return nil, &dataset.TrajectoryNotFound{TaskID: taskID}
	}
	traj := &models.Trajectory{TaskID: taskID}
	for i := 0; i < n; i++ {
		traj.Steps = append(traj.Steps, models.Step{Index: i, Role: models.RoleAssistant, Content: fmt.Sprintf("step %d", i)})
	}
	return traj, nil
}

func fixture() ([]models.TaskRecord, *fakeLoader) {
	tasks := []models.TaskRecord{
		models.NewTaskRecord("astropy__astropy-12907", true),
		models.NewTaskRecord("django__django-11099", false),
		models.NewTaskRecord("django__django-11133", true),
		models.NewTaskRecord("sympy__sympy-20590", false),
		models.NewTaskRecord("sympy__sympy-21612", true),
	}
	loader := &fakeLoader{steps: map[string]int{
		"astropy__astropy-12907": 6,
		"django__django-11099":   3,
		"django__django-11133":   4,
		"sympy__sympy-20590":     5,
		"sympy__sympy-21612":     2,
	}}
	return tasks, loader
}

func TestNewSelectsFirstTask(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	st := c.State()
	assert.Equal(t, 0, st.TaskIndex)
	assert.Equal(t, 0, st.StepIndex)
	assert.Equal(t, ViewFull, st.Mode)
	assert.Equal(t, 6, c.Trajectory().Len())
	assert.NoError(t, c.LastError())
	assert.False(t, c.CanPrevTask())
	assert.True(t, c.CanNextTask())
}

func TestSelectTaskResetsStepAndMode(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	for _, target := range []int{-3, 0, 2, 4, 99} {
		for _, j := range []int{0, 1, 5} {
			c.JumpToStep(j)
			require.NoError(t, c.SelectTask(target))
			st := c.State()
			assert.Equal(t, 0, st.StepIndex, "target %d from step %d", target, j)
			assert.Equal(t, ViewFull, st.Mode)
		}
	}
	assert.Equal(t, 4, c.State().TaskIndex)
	require.NoError(t, c.SelectTask(-3))
	assert.Equal(t, 0, c.State().TaskIndex)
}

func TestJumpToStepFocusesStep(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)
	n := c.Trajectory().Len()

	for j := 0; j < n; j++ {
		c.JumpToStep(j)
		st := c.State()
		assert.Equal(t, j, st.StepIndex)
		assert.Equal(t, ViewSingle, st.Mode)
		assert.Equal(t, fmt.Sprintf("step %d", j), c.Trajectory().Steps[st.StepIndex].Content)
	}

	c.JumpToStep(-1)
	assert.Equal(t, 0, c.State().StepIndex)
	c.JumpToStep(n + 10)
	assert.Equal(t, n-1, c.State().StepIndex)
}

func TestStepNavigationClamps(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	c.PrevStep()
	assert.Equal(t, 0, c.State().StepIndex)
	assert.False(t, c.CanPrevStep())

	for i := 0; i < 10; i++ {
		c.NextStep()
	}
	assert.Equal(t, 5, c.State().StepIndex)
	assert.False(t, c.CanNextStep())
	assert.Equal(t, ViewFull, c.State().Mode)

	c.ToggleMode()
	assert.Equal(t, ViewSingle, c.State().Mode)
	assert.Equal(t, 5, c.State().StepIndex)
	c.ToggleMode()
	assert.Equal(t, ViewFull, c.State().Mode)
	assert.Equal(t, 5, c.State().StepIndex)
}

func TestTaskNavigationClampsAtBoundaries(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	require.NoError(t, c.PrevTask())
	assert.Equal(t, 0, c.State().TaskIndex)

	for i := 0; i < 10; i++ {
		require.NoError(t, c.NextTask())
	}
	assert.Equal(t, 4, c.State().TaskIndex)
	assert.False(t, c.CanNextTask())
}

func TestStatusFilterFallsBackToFirstMatch(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)
	c.JumpToStep(3)

	cur, _ := c.Current()
	require.True(t, cur.Resolved)

	require.NoError(t, c.SetFilters(dataset.Filters{Status: models.StatusFilterUnresolved}))
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "django__django-11099", cur.ID)
	assert.Equal(t, 0, c.State().TaskIndex)
	assert.Equal(t, 0, c.State().StepIndex)
	assert.Equal(t, ViewFull, c.State().Mode)
	assert.Len(t, c.Tasks(), 2)
	assert.Len(t, c.All(), 5)
}

func TestSetFiltersKeepsCurrentTask(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)
	require.NoError(t, c.SelectTaskID("sympy__sympy-20590"))
	c.JumpToStep(2)

	require.NoError(t, c.SetFilters(dataset.Filters{Project: "SymPy"}))
	cur, _ := c.Current()
	assert.Equal(t, "sympy__sympy-20590", cur.ID)
	assert.Equal(t, 0, c.State().TaskIndex)
	assert.Equal(t, 2, c.State().StepIndex)
	assert.Equal(t, ViewSingle, c.State().Mode)
}

func TestEmptyFilterDisablesNavigation(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	require.NoError(t, c.SetFilters(dataset.Filters{Project: "requests"}))
	assert.True(t, c.Empty())
	assert.Equal(t, -1, c.State().TaskIndex)
	assert.Nil(t, c.Trajectory())
	_, ok := c.Current()
	assert.False(t, ok)

	assert.NoError(t, c.NextTask())
	assert.NoError(t, c.PrevTask())
	assert.NoError(t, c.SelectTask(2))
	c.NextStep()
	c.JumpToStep(1)
	assert.Equal(t, -1, c.State().TaskIndex)
	assert.Equal(t, 0, c.State().StepIndex)
	assert.False(t, c.CanNextTask())
	assert.False(t, c.CanPrevTask())
	assert.False(t, c.CanNextStep())

	require.NoError(t, c.SetFilters(dataset.Filters{}))
	assert.Equal(t, 0, c.State().TaskIndex)
	assert.NotNil(t, c.Trajectory())
}

func TestMissingTrajectoryKeepsPreviousTask(t *testing.T) {
	tasks, loader := fixture()
	delete(loader.steps, "django__django-11099")
	c := New(tasks, loader)
	c.JumpToStep(4)

	err := c.SelectTask(1)
	require.Error(t, err)
	assert.True(t, dataset.IsNotFound(err))
	assert.Equal(t, err, c.LastError())
	assert.Error(t, c.Unavailable("django__django-11099"))

	st := c.State()
	assert.Equal(t, 0, st.TaskIndex)
	assert.Equal(t, 4, st.StepIndex)
	assert.Equal(t, ViewSingle, st.Mode)
	assert.Equal(t, "astropy__astropy-12907", c.Trajectory().TaskID)
}

func TestNextTaskSkipsUnavailable(t *testing.T) {
	tasks, loader := fixture()
	delete(loader.steps, "django__django-11099")
	delete(loader.steps, "sympy__sympy-21612")
	c := New(tasks, loader)

	require.NoError(t, c.NextTask())
	assert.Equal(t, 2, c.State().TaskIndex)
	require.NoError(t, c.NextTask())
	assert.Equal(t, 3, c.State().TaskIndex)

	// Nothing loadable beyond: state unchanged.
	err := c.NextTask()
	assert.True(t, dataset.IsNotFound(err))
	assert.Equal(t, 3, c.State().TaskIndex)

	require.NoError(t, c.PrevTask())
	assert.Equal(t, 2, c.State().TaskIndex)
	require.NoError(t, c.PrevTask())
	assert.Equal(t, 0, c.State().TaskIndex)
}

func TestFirstTaskUnavailable(t *testing.T) {
	tasks, loader := fixture()
	delete(loader.steps, "astropy__astropy-12907")
	c := New(tasks, loader)

	assert.Equal(t, 0, c.State().TaskIndex)
	assert.Nil(t, c.Trajectory())
	assert.True(t, dataset.IsNotFound(c.LastError()))
	assert.False(t, c.CanNextStep())

	require.NoError(t, c.NextTask())
	assert.Equal(t, 1, c.State().TaskIndex)
	assert.NoError(t, c.LastError())
}

func TestSelectTaskIDUnknown(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)

	err := c.SelectTaskID("pylint-dev__pylint-7080")
	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.Equal(t, 0, c.State().TaskIndex)
}

func TestReloadKeepsCurrentTask(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)
	require.NoError(t, c.SelectTaskID("django__django-11133"))

	reordered := []models.TaskRecord{tasks[2], tasks[0], tasks[4]}
	require.NoError(t, c.Reload(reordered))
	cur, _ := c.Current()
	assert.Equal(t, "django__django-11133", cur.ID)
	assert.Equal(t, 0, c.State().TaskIndex)

	require.NoError(t, c.Reload(tasks[3:]))
	cur, _ = c.Current()
	assert.Equal(t, "sympy__sympy-20590", cur.ID)
}

func TestReloadTrajectoryClampsStep(t *testing.T) {
	tasks, loader := fixture()
	c := New(tasks, loader)
	c.JumpToStep(5)

	loader.steps["astropy__astropy-12907"] = 2
	require.NoError(t, c.ReloadTrajectory())
	assert.Equal(t, 1, c.State().StepIndex)
	assert.Equal(t, ViewSingle, c.State().Mode)
	assert.Equal(t, 2, c.Trajectory().Len())
}

func TestParseViewMode(t *testing.T) {
	assert.Equal(t, ViewSingle, ParseViewMode("single"))
	assert.Equal(t, ViewFull, ParseViewMode("full"))
	assert.Equal(t, ViewFull, ParseViewMode(""))
}
