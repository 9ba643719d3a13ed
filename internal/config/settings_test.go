package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/models"
)

func useMemFS(t *testing.T) {
	t.Helper()
	orig := FS
	FS = afero.NewMemMapFs()
	t.Cleanup(func() { FS = orig })
	t.Setenv(HomeEnv, "/home/test/.trajview")
}

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	useMemFS(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, models.NewSettings(), s)
}

func TestSaveAndLoadSettings(t *testing.T) {
	useMemFS(t)

	s := models.NewSettings()
	s.Dataset.BaseDir = "/data/run"
	s.Viewer.PreviewWidth = 60
	require.NoError(t, SaveSettings(s))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/data/run", loaded.Dataset.BaseDir)
	assert.Equal(t, 60, loaded.Viewer.PreviewWidth)

	// No temp files left behind next to the settings file.
	entries, err := afero.ReadDir(FS, "/home/test/.trajview")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SettingsFileName, entries[0].Name())
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	useMemFS(t)

	path, err := GlobalSettingsFile()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(FS, path, []byte("dataset:\n  base_dir: /srv/data\n"), 0o644))

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", s.Dataset.BaseDir)
	assert.Equal(t, "trajs", s.Dataset.TrajsDir)
	assert.Equal(t, 40, s.Viewer.PreviewWidth)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	useMemFS(t)

	path, err := GlobalSettingsFile()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(FS, path, []byte("dataset: [unterminated"), 0o644))

	_, err = LoadSettings()
	assert.Error(t, err)
}

func TestSetSetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "base dir", key: "dataset.base_dir", value: "/x"},
		{name: "keywords", key: "viewer.error_keywords", value: "error, panic ,"},
		{name: "width", key: "viewer.preview_width", value: "80"},
		{name: "bad width", key: "viewer.preview_width", value: "zero", wantErr: true},
		{name: "watch", key: "viewer.watch", value: "false"},
		{name: "bad bool", key: "viewer.watch", value: "maybe", wantErr: true},
		{name: "level", key: "log.level", value: "debug"},
		{name: "bad level", key: "log.level", value: "trace", wantErr: true},
		{name: "unknown", key: "nope", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSettings()
			err := SetSetting(s, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := GetSetting(s, tt.key)
			require.NoError(t, err)
			if tt.key == "viewer.error_keywords" {
				assert.Equal(t, "error,panic", got)
				return
			}
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestSettingKeysRoundTrip(t *testing.T) {
	s := models.NewSettings()
	for _, key := range SettingKeys {
		_, err := GetSetting(s, key)
		assert.NoError(t, err, key)
	}
}

func TestResolveDataset(t *testing.T) {
	paths := ResolveDataset(models.DatasetConfig{
		BaseDir:         "runs/a",
		TrajsDir:        "trajs",
		ResultsFile:     "/abs/results.json",
		PredictionsFile: "",
	})
	assert.Equal(t, filepath.Join("runs/a", "trajs"), paths.TrajsDir)
	assert.Equal(t, "/abs/results.json", paths.ResultsFile)
	assert.Equal(t, "", paths.PredictionsFile)
}
