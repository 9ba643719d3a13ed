package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/trajview/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show or change the settings stored in ~/.trajview/settings.yaml.

Without a subcommand every setting is listed. List values such as
viewer.error_keywords are given comma separated.`,
	Args: cobra.NoArgs,
	RunE: runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path, err := config.GlobalSettingsFile()
	if err == nil {
		fmt.Fprintf(out, "%s %s\n\n", styleLabel.Render("Settings file:"), path)
	}
	for _, key := range config.SettingKeys {
		value, err := config.GetSetting(settings, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = styleHint.Render("(unset)")
		}
		fmt.Fprintf(out, "  %s %s\n", styleArgKey.Render(fmt.Sprintf("%-26s", key)), value)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	value, err := config.GetSetting(settings, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	// Reload so flag overrides of this invocation are not persisted.
	s, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := config.SetSetting(s, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	value, _ := config.GetSetting(s, args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", styleSuccess.Render("✓"), args[0], value)
	return nil
}
