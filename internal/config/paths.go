// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"

	"github.com/watchfire-io/trajview/internal/models"
)

const (
	// GlobalDirName is the name of the global trajview directory.
	GlobalDirName = ".trajview"

	// HomeEnv overrides the global directory location.
	HomeEnv = "TRAJVIEW_HOME"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"

	// ExportsDirName is the default directory for raw trajectory exports.
	ExportsDirName = "exports"
)

// File names
const (
	SettingsFileName = "settings.yaml"
	LogFileName      = "trajview.log"
)

// GlobalDir returns the path to the global trajview directory (~/.trajview/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// GlobalLogFile returns the path to the application log file.
func GlobalLogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// ExportDir returns the directory raw trajectory exports are written to.
func ExportDir(settings *models.Settings) (string, error) {
	if settings != nil && settings.Viewer.ExportDir != "" {
		return settings.Viewer.ExportDir, nil
	}
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ExportsDirName), nil
}

// EnsureGlobalLogsDir creates the global logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return FS.MkdirAll(dir, 0o755)
}

// DatasetPaths are the absolute-or-relative locations of the dataset files.
type DatasetPaths struct {
	TrajsDir        string
	ResultsFile     string
	PredictionsFile string
}

// ResolveDataset joins the dataset settings against the base directory.
// Absolute entries are used as-is.
func ResolveDataset(ds models.DatasetConfig) DatasetPaths {
	return DatasetPaths{
		TrajsDir:        resolve(ds.BaseDir, ds.TrajsDir),
		ResultsFile:     resolve(ds.BaseDir, ds.ResultsFile),
		PredictionsFile: resolve(ds.BaseDir, ds.PredictionsFile),
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
