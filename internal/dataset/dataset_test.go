package dataset

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/config"
)

func testPaths() config.DatasetPaths {
	return config.DatasetPaths{
		TrajsDir:        "/data/trajs",
		ResultsFile:     "/data/results/results.json",
		PredictionsFile: "/data/all_preds.jsonl",
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := testPaths()
	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(
		`{"resolved_ids": ["astropy__astropy-12907"], "unresolved_ids": ["django__django-11099"]}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/astropy__astropy-12907/traj.json", []byte(`[]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, paths.PredictionsFile, []byte(
		`{"instance_id": "astropy__astropy-12907", "model_patch": "diff"}`+"\n"), 0o644))

	ds, err := Open(fs, paths)
	require.NoError(t, err)
	assert.Len(t, ds.Tasks(), 2)
	assert.Equal(t, []string{"django__django-11099"}, ds.Missing)
	assert.True(t, ds.IsMissing("django__django-11099"))
	assert.False(t, ds.IsMissing("astropy__astropy-12907"))

	pred, ok := ds.Prediction("astropy__astropy-12907")
	require.True(t, ok)
	assert.Equal(t, "diff", pred.Patch)
}

func TestOpenWithoutOptionalFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := testPaths()
	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{"a__a-1": true}`), 0o644))

	ds, err := Open(fs, paths)
	require.NoError(t, err)
	assert.Empty(t, ds.Predictions)
	assert.Equal(t, []string{"a__a-1"}, ds.Missing)
}

func TestOpenMalformedPredictionsIsNotFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := testPaths()
	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{"a__a-1": true}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, paths.PredictionsFile, []byte("{oops\n"), 0o644))

	ds, err := Open(fs, paths)
	require.NoError(t, err)
	assert.Empty(t, ds.Predictions)
}

func TestOpenRequiresResults(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), testPaths())
	assert.True(t, IsDataFormat(err))
}

func TestRefresh(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := testPaths()
	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{"a__a-1": true}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/a__a-1/t.json", []byte(`[]`), 0o644))

	ds, err := Open(fs, paths)
	require.NoError(t, err)
	_, err = ds.Store.Load("a__a-1")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{"a__a-1": true, "b__b-2": false}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/a__a-1/t.json", []byte(`[{"role":"user","content":"x"}]`), 0o644))

	fresh, err := ds.Refresh(fs)
	require.NoError(t, err)
	assert.Len(t, fresh.Tasks(), 2)
	assert.Len(t, ds.Tasks(), 1)

	traj, err := fresh.Store.Load("a__a-1")
	require.NoError(t, err)
	assert.Equal(t, 1, traj.Len())
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := testPaths()
	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{"a__a-1": true}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/a__a-1/t.json", []byte(`[]`), 0o644))

	ds, err := Open(fs, paths)
	require.NoError(t, err)
	_, err = ds.Store.Load("a__a-1")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, paths.ResultsFile, []byte(`{`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/a__a-1/t.json", []byte(`[{"role":"user","content":"x"}]`), 0o644))

	_, err = ds.Refresh(fs)
	require.Error(t, err)

	// The old snapshot still serves its cached trajectory.
	traj, err := ds.Store.Load("a__a-1")
	require.NoError(t, err)
	assert.Equal(t, 0, traj.Len())
}
