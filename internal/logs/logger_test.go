package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithHandlersFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewWithHandlers(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)
	logger.Info("loaded", "tasks", 3)

	assert.Contains(t, a.String(), "tasks=3")
	assert.Contains(t, b.String(), "tasks=3")
}

func TestNewWritesLogFile(t *testing.T) {
	orig := config.FS
	config.FS = afero.NewMemMapFs()
	t.Cleanup(func() { config.FS = orig })
	t.Setenv(config.HomeEnv, "/home/test/.trajview")

	logger, closer, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	logger.Debug("hello", "task", "astropy__astropy-12907")
	require.NoError(t, closer.Close())

	path, err := config.GlobalLogFile()
	require.NoError(t, err)
	data, err := afero.ReadFile(config.FS, path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "task=astropy__astropy-12907"))
}
