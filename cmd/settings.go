package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings(nil)
		if err := printSettings(os.Stdout, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetSettingsPath())
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		path := config.GetSettingsPath()
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
			os.Exit(1)
		}
		if err := config.SaveSettings(config.DefaultSettings()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

// printSettings lists every documented setting with its current value,
// followed by the family table.
func printSettings(w io.Writer, settings *config.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	header := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)
	meta := config.GetSettingsMetadata()

	for _, category := range config.CategoryOrder() {
		var values map[string]json.RawMessage
		if err := json.Unmarshal(raw[strings.ToLower(category)], &values); err != nil {
			return fmt.Errorf("settings category %s: %w", category, err)
		}
		fmt.Fprintln(w, header.Render(category))
		for _, m := range meta[category] {
			fmt.Fprintf(w, "  %-20s %-24s %s\n", m.Label, formatSetting(m, values[m.Key]), muted.Render(m.Description))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, header.Render("Families"))
	for _, f := range settings.ToFamilies() {
		fmt.Fprintf(w, "  %-20s %-24s %s\n", f.Name, f.HSL, muted.Render(f.ID))
	}
	return nil
}

func formatSetting(m config.SettingMeta, raw json.RawMessage) string {
	switch m.Type {
	case "duration":
		var d time.Duration
		if err := json.Unmarshal(raw, &d); err == nil {
			return d.String()
		}
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if m.Key == "theme" {
		var theme int
		if err := json.Unmarshal(raw, &theme); err == nil {
			switch theme {
			case config.ThemeLight:
				return "light"
			case config.ThemeDark:
				return "dark"
			}
			return "system"
		}
	}
	return string(raw)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsPathCmd, settingsInitCmd)
	settingsInitCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
}
