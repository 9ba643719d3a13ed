// Package models contains shared data structures used across the application.
package models

// DatasetConfig locates the trajectory dataset on disk.
// Relative trajectory, results and predictions paths resolve against BaseDir.
type DatasetConfig struct {
	BaseDir         string `yaml:"base_dir"`
	TrajsDir        string `yaml:"trajs_dir"`
	ResultsFile     string `yaml:"results_file"`
	PredictionsFile string `yaml:"predictions_file"`
}

// ViewerConfig holds presentation settings shared by the TUI and web surfaces.
type ViewerConfig struct {
	ErrorKeywords  []string `yaml:"error_keywords"`
	BlockArguments []string `yaml:"block_arguments"` // rendered as blocks instead of inline
	PreviewWidth   int      `yaml:"preview_width"`
	Watch          bool     `yaml:"watch"`
	ExportDir      string   `yaml:"export_dir"` // empty = ~/.trajview/exports
}

// ServerConfig holds settings for `trajview serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	MaxConns int    `yaml:"max_conns"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Settings represents global application settings.
// This corresponds to ~/.trajview/settings.yaml.
type Settings struct {
	Version int           `yaml:"version"`
	Dataset DatasetConfig `yaml:"dataset"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Dataset: DatasetConfig{
			BaseDir:         "evaluation/python/verified/20250329_OpenHands_Claude-3.5-Sonnet(Oct)",
			TrajsDir:        "trajs",
			ResultsFile:     "results/results.json",
			PredictionsFile: "all_preds.jsonl",
		},
		Viewer: ViewerConfig{
			ErrorKeywords:  []string{"error", "exception", "failed", "traceback"},
			BlockArguments: []string{"old_str", "new_str", "file_text"},
			PreviewWidth:   40,
			Watch:          true,
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:7428",
			MaxConns: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
