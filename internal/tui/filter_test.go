package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/dataset"
	"github.com/watchfire-io/trajview/internal/models"
)

func TestFilterFormCycleAndClear(t *testing.T) {
	f := NewFilterForm(dataset.Filters{Project: "django"}, []string{"astropy", "django"}, 40)
	assert.Equal(t, models.StatusAll, f.Filters().Status)

	// Cycling only applies on the status row.
	assert.False(t, f.Cycle())
	f.MoveDown()
	require.True(t, f.Cycle())
	assert.Equal(t, models.StatusFilterUnresolved, f.Filters().Status)
	f.Cycle()
	assert.Equal(t, models.StatusFilterResolved, f.Filters().Status)

	f.Clear()
	assert.Equal(t, dataset.Filters{Status: models.StatusAll}, f.Filters())
}

func TestFilterFormProjectEdit(t *testing.T) {
	f := NewFilterForm(dataset.Filters{}, []string{"astropy", "django"}, 40)

	require.True(t, f.StartEdit())
	f.InputModel().SetValue("Django")
	require.NoError(t, f.FinishEdit())
	assert.Equal(t, "Django", f.Filters().Project)
	assert.False(t, f.IsEditing())

	f.StartEdit()
	f.InputModel().SetValue("flask")
	assert.Error(t, f.FinishEdit())
	assert.True(t, f.IsEditing())
	f.CancelEdit()
	assert.Equal(t, "Django", f.Filters().Project)

	f.StartEdit()
	f.InputModel().SetValue("  ")
	require.NoError(t, f.FinishEdit())
	assert.Empty(t, f.Filters().Project)
}

func TestFilterFormStartEditOnlyOnProject(t *testing.T) {
	f := NewFilterForm(dataset.Filters{}, nil, 40)
	f.MoveDown()
	assert.False(t, f.StartEdit())
	f.MoveDown()
	f.MoveUp()
	f.MoveUp()
	assert.True(t, f.StartEdit())
}
