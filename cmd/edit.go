package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/tui"
	"github.com/tonekit/tonekit/internal/utils"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the terminal palette editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runEditor(cmd)
	},
}

// runEditor starts the terminal editor under the single-editor lock.
func runEditor(cmd *cobra.Command) {
	initializeGlobalState()
	settings := loadSettings(cmd)

	isMaster, err := AcquireLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error acquiring lock: %v\n", err)
		os.Exit(1)
	}
	if !isMaster {
		fmt.Fprintln(os.Stderr, "Error: another tonekit editor is already running.")
		fmt.Fprintln(os.Stderr, "Use 'tonekit hsl set' or 'tonekit fix' to edit through it.")
		os.Exit(1)
	}
	defer func() {
		if err := ReleaseLock(); err != nil {
			utils.Debug("Error releasing lock: %v", err)
		}
	}()

	switch settings.Editor.Theme {
	case config.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	}

	st := mustOpenStore(settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := config.NewWatcher(func(s *config.Settings) {
		st.SetFamilies(s.ToFamilies())
	})
	if err := watcher.Start(ctx); err != nil {
		utils.Debug("config: watcher unavailable: %v", err)
	} else {
		defer watcher.Stop()
	}

	m := tui.InitialRootModel(tui.Options{
		Store:        st,
		Settings:     settings,
		FallbackPath: filepath.Join(config.GetStateDir(), "clipboard.txt"),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
}
