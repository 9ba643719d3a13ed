package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
)

const astropyTraj = `{"instance_id": "astropy__astropy-12907", "fncall_messages": [
  {"role": "system", "content": "You are a helpful agent."},
  {"role": "user", "content": "Fix separability"},
  {"role": "assistant", "content": "Editing.", "tool_calls": [
    {"id": "toolu_01", "type": "function", "function": {"name": "str_replace_editor",
     "arguments": "{\"command\": \"str_replace\", \"path\": \"/repo/separable.py\", \"old_str\": \"a < b\", \"new_str\": \"a <= b\"}"}}]},
  {"role": "tool", "name": "str_replace_editor", "tool_call_id": "toolu_01", "content": "The file has been edited."}
]}`

const astropyPatch = "diff --git a/separable.py b/separable.py\n-\ta < b\n+\ta <= b\n"

// setupCLI points the CLI at an in-memory home and dataset.
func setupCLI(t *testing.T) afero.Fs {
	t.Helper()
	orig := config.FS
	fs := afero.NewMemMapFs()
	config.FS = fs
	t.Cleanup(func() { config.FS = orig })
	t.Setenv(config.HomeEnv, "/home")

	require.NoError(t, afero.WriteFile(fs, "/data/results/results.json", []byte(`{
  "submitted_ids": ["astropy__astropy-12907", "django__django-11099", "sympy__sympy-20590"],
  "resolved_ids": ["astropy__astropy-12907"],
  "unresolved_ids": ["django__django-11099", "sympy__sympy-20590"]
}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/astropy__astropy-12907/traj.json", []byte(astropyTraj), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trajs/django__django-11099/traj.json",
		[]byte(`[{"role": "user", "content": "hi"}, {"role": "assistant", "content": "hello"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/all_preds.jsonl", []byte(
		`{"instance_id": "astropy__astropy-12907", "model_name_or_path": "agent", "model_patch": "diff --git a/separable.py b/separable.py\n-\ta < b\n+\ta <= b\n"}`+"\n"), 0o644))
	return fs
}

// run executes the CLI with --data-dir /data and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--data-dir", "/data"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestTasks(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "tasks")
	require.NoError(t, err)

	assert.Contains(t, out, "(3 of 3)")
	assert.Contains(t, out, "astropy__astropy-12907")
	assert.Contains(t, out, "sympy__sympy-20590 (no data)")
	assert.Contains(t, out, "1 task(s) have no trajectory directory")
}

func TestTasksFilters(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "tasks", "--project", "django", "--status", "unresolved")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 of 3)")
	assert.NotContains(t, out, "astropy")

	out, err = run(t, "tasks", "--project", "django", "--status", "resolved")
	require.NoError(t, err)
	assert.Contains(t, out, dataset.ErrFilterYieldsEmpty.Error())

	_, err = run(t, "tasks", "--status", "weird")
	assert.ErrorContains(t, err, "invalid status")
}

func TestShow(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "show", "astropy__astropy-12907")
	require.NoError(t, err)

	assert.Contains(t, out, "4 steps")
	assert.Contains(t, out, "Step 1")
	assert.Contains(t, out, "Step 4")
	assert.Contains(t, out, "Tool call:")
	assert.Contains(t, out, "str_replace_editor")
	assert.Contains(t, out, "a <= b")
}

func TestShowSingleStep(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "show", "astropy__astropy-12907", "--step", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 2")
	assert.Contains(t, out, "Fix separability")
	assert.NotContains(t, out, "Step 1 ")
	assert.NotContains(t, out, "Step 3 ")

	_, err = run(t, "show", "astropy__astropy-12907", "--step", "9")
	assert.ErrorContains(t, err, "out of range")
}

func TestShowTOC(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "show", "astropy__astropy-12907", "--toc")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. ")
	assert.Contains(t, out, "  4. ")
	assert.Contains(t, out, "✅")
}

func TestShowMissingTrajectory(t *testing.T) {
	setupCLI(t)
	_, err := run(t, "show", "sympy__sympy-20590")
	assert.ErrorContains(t, err, "sympy__sympy-20590")
}

func TestSummary(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "summary", "astropy__astropy-12907")
	require.NoError(t, err)

	assert.Contains(t, out, "https://github.com/astropy/astropy/pull/12907")
	assert.Contains(t, out, "str_replace_editor (1)")
	assert.Contains(t, out, "/repo/separable.py")
}

func TestPatchIsVerbatimWhenPiped(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "patch", "astropy__astropy-12907")
	require.NoError(t, err)
	assert.Equal(t, astropyPatch, out)

	_, err = run(t, "patch", "django__django-11099")
	assert.ErrorContains(t, err, "no prediction for django__django-11099")
}

func TestPatchWithoutPredictionsFile(t *testing.T) {
	fs := setupCLI(t)
	require.NoError(t, fs.Remove("/data/all_preds.jsonl"))
	_, err := run(t, "patch", "astropy__astropy-12907")
	assert.ErrorContains(t, err, "no predictions file")
}

func TestExport(t *testing.T) {
	fs := setupCLI(t)

	out, err := run(t, "export", "astropy__astropy-12907")
	require.NoError(t, err)
	assert.Equal(t, astropyTraj, out)

	require.NoError(t, fs.MkdirAll("/out", 0o755))
	_, err = run(t, "export", "astropy__astropy-12907", "-o", "/out")
	require.NoError(t, err)
	data, err := afero.ReadFile(fs, "/out/astropy__astropy-12907_trajectory.json")
	require.NoError(t, err)
	assert.Equal(t, astropyTraj, string(data))

	_, err = run(t, "export", "astropy__astropy-12907", "-o", "/out/copy.json")
	require.NoError(t, err)
	exists, _ := afero.Exists(fs, "/out/copy.json")
	assert.True(t, exists)
}

func TestSettingsSetAndGet(t *testing.T) {
	fs := setupCLI(t)

	out, err := run(t, "settings", "set", "viewer.preview_width", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "viewer.preview_width = 60")

	// --data-dir is an override for this run only.
	data, err := afero.ReadFile(fs, "/home/settings.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "preview_width: 60")
	assert.NotContains(t, string(data), "base_dir: /data")

	out, err = run(t, "settings", "get", "viewer.preview_width")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)

	out, err = run(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "server.addr")
	assert.Contains(t, out, "127.0.0.1:7428")

	_, err = run(t, "settings", "set", "viewer.preview_width", "zero")
	assert.Error(t, err)
	_, err = run(t, "settings", "get", "nope")
	assert.ErrorContains(t, err, "unknown setting")
}

func TestVersion(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trajview dev")
}
