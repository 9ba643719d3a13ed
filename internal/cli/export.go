package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
	"github.com/watchfire-io/trajview/internal/dataset"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <task>",
	Short: "Write a task's raw trajectory file",
	Long: `Write a task's trajectory file byte for byte, to stdout or to the
file given with --output. When --output names a directory the file is
saved there as {task}_trajectory.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "destination file or directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	data, src, err := openStore().Raw(taskID)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	dest := exportOutput
	if isDir, _ := afero.IsDir(config.FS, dest); isDir {
		dest = filepath.Join(dest, dataset.ExportFileName(taskID))
	}
	if err := config.WriteFileAtomic(dest, data); err != nil {
		return fmt.Errorf("failed to export %s: %w", taskID, err)
	}
	logger.Debug("trajectory exported", "task", taskID, "source", src, "dest", dest)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s → %s\n", styleSuccess.Render("Exported"), taskID, dest)
	return nil
}
