package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
)

var patchCmd = &cobra.Command{
	Use:   "patch <task>",
	Short: "Print the patch the agent predicted for a task",
	Long: `Print the patch the agent predicted for a task, as recorded in the
predictions file. Output is colored on a terminal and written verbatim
otherwise, so it can be piped to git apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

func runPatch(cmd *cobra.Command, args []string) error {
	path := datasetPaths().PredictionsFile
	preds, err := dataset.LoadPredictions(config.FS, path)
	if errors.Is(err, dataset.ErrNoPredictions) {
		return fmt.Errorf("no predictions file at %s", path)
	}
	if err != nil {
		return err
	}

	pred, ok := preds[args[0]]
	if !ok {
		return fmt.Errorf("no prediction for %s in %s", args[0], path)
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		_, err := io.WriteString(out, pred.Patch)
		return err
	}
	if pred.Patch == "" {
		fmt.Fprintln(out, styleHint.Render("The prediction has an empty patch."))
		return nil
	}
	fmt.Fprintln(out, colorizeDiff(pred.Patch))
	return nil
}

func colorizeDiff(patch string) string {
	lines := strings.Split(strings.TrimRight(patch, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "diff --git"), strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = styleDiffFile.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = styleDiffHunk.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = styleDiffAdd.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = styleDiffDel.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
