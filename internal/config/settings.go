package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/watchfire-io/trajview/internal/models"
)

// LoadSettings loads the global settings from ~/.trajview/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.trajview/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// SettingKeys lists the keys accepted by SetSetting, in display order.
var SettingKeys = []string{
	"dataset.base_dir",
	"dataset.trajs_dir",
	"dataset.results_file",
	"dataset.predictions_file",
	"viewer.error_keywords",
	"viewer.block_arguments",
	"viewer.preview_width",
	"viewer.watch",
	"viewer.export_dir",
	"server.addr",
	"server.max_conns",
	"log.level",
}

// GetSetting returns the display value of a dotted settings key.
func GetSetting(s *models.Settings, key string) (string, error) {
	switch key {
	case "dataset.base_dir":
		return s.Dataset.BaseDir, nil
	case "dataset.trajs_dir":
		return s.Dataset.TrajsDir, nil
	case "dataset.results_file":
		return s.Dataset.ResultsFile, nil
	case "dataset.predictions_file":
		return s.Dataset.PredictionsFile, nil
	case "viewer.error_keywords":
		return strings.Join(s.Viewer.ErrorKeywords, ","), nil
	case "viewer.block_arguments":
		return strings.Join(s.Viewer.BlockArguments, ","), nil
	case "viewer.preview_width":
		return strconv.Itoa(s.Viewer.PreviewWidth), nil
	case "viewer.watch":
		return strconv.FormatBool(s.Viewer.Watch), nil
	case "viewer.export_dir":
		return s.Viewer.ExportDir, nil
	case "server.addr":
		return s.Server.Addr, nil
	case "server.max_conns":
		return strconv.Itoa(s.Server.MaxConns), nil
	case "log.level":
		return s.Log.Level, nil
	}
	return "", fmt.Errorf("unknown setting: %s", key)
}

// SetSetting assigns a dotted settings key from its string form.
func SetSetting(s *models.Settings, key, value string) error {
	switch key {
	case "dataset.base_dir":
		s.Dataset.BaseDir = value
	case "dataset.trajs_dir":
		s.Dataset.TrajsDir = value
	case "dataset.results_file":
		s.Dataset.ResultsFile = value
	case "dataset.predictions_file":
		s.Dataset.PredictionsFile = value
	case "viewer.error_keywords":
		s.Viewer.ErrorKeywords = splitList(value)
	case "viewer.block_arguments":
		s.Viewer.BlockArguments = splitList(value)
	case "viewer.preview_width":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid preview width: %s", value)
		}
		s.Viewer.PreviewWidth = n
	case "viewer.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		s.Viewer.Watch = b
	case "viewer.export_dir":
		s.Viewer.ExportDir = value
	case "server.addr":
		s.Server.Addr = value
	case "server.max_conns":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max conns: %s", value)
		}
		s.Server.MaxConns = n
	case "log.level":
		switch value {
		case "debug", "info", "warn", "error":
			s.Log.Level = value
		default:
			return fmt.Errorf("invalid log level: %s (expected debug, info, warn or error)", value)
		}
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
