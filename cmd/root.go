package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/state"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/tokens"
	"github.com/tonekit/tonekit/internal/utils"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "tonekit",
	Short:   "HSL color palettes with WCAG-aware text colors",
	Long:    `tonekit generates HSL color ramps with light and dark variants, grades every text pair against WCAG contrast and exports the result as design-token JSON or CSS custom properties.`,
	Version: Version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runEditor(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("prefix", "", "CSS variable prefix (default from settings)")
	rootCmd.SetVersionTemplate("tonekit version {{.Version}}\n")
	// Errors from RunE are printed as "Error: ..." without the usage block
	rootCmd.SilenceUsage = true
}

// initializeGlobalState sets up directories, the state database and logging
func initializeGlobalState() {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
	}

	state.Configure(config.GetDBPath())
	utils.ConfigureDebug(config.GetLogsDir())

	settings, err := config.LoadSettings()
	var retention int
	if err == nil {
		retention = settings.General.LogRetentionCount
	} else {
		retention = config.DefaultSettings().General.LogRetentionCount
	}
	utils.CleanupLogs(retention)
}

// loadSettings reads settings.json, falling back to defaults, and applies
// command-line overrides.
func loadSettings(cmd *cobra.Command) *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load settings, using defaults: %v\n", err)
		settings = config.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if cmd != nil {
		if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
			settings.General.CSSPrefix = prefix
		}
	}
	return settings
}

func tokenOptions(settings *config.Settings) tokens.Options {
	return tokens.Options{Prefix: settings.General.CSSPrefix}
}

// openStore loads persisted edits on top of the configured families.
func openStore(settings *config.Settings) (*store.Store, error) {
	st := store.New(settings.ToFamilies(), state.NewRepo())
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("load palette state: %w", err)
	}
	return st, nil
}

// mustOpenStore is openStore for commands that cannot continue without it.
func mustOpenStore(settings *config.Settings) *store.Store {
	st, err := openStore(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return st
}

// resolveService picks where edits go. A running preview server receives
// them over its API so the page updates live; otherwise the local store is
// edited under the editor lock. The returned release func must be called.
func resolveService(settings *config.Settings) (core.PaletteService, func(), error) {
	if port := readActivePort(); port > 0 {
		baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
		svc := core.NewRemotePaletteService(baseURL, ensureAuthToken())
		if _, err := svc.Families(); err == nil {
			utils.Debug("cli: routing edits through %s", baseURL)
			return svc, func() {}, nil
		}
		// Stale port file from a crashed server
		removeActivePort()
	}

	acquired, err := AcquireLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, nil, fmt.Errorf("another tonekit editor is running; close it or run 'tonekit serve' to edit concurrently")
	}
	release := func() {
		if err := ReleaseLock(); err != nil {
			utils.Debug("Error releasing lock: %v", err)
		}
	}

	st, err := openStore(settings)
	if err != nil {
		release()
		return nil, nil, err
	}
	return core.NewLocalPaletteService(st, nil), release, nil
}

// withService runs fn against the resolved service and releases the editor
// lock before returning, whatever fn returns.
func withService(settings *config.Settings, fn func(core.PaletteService) error) error {
	svc, release, err := resolveService(settings)
	if err != nil {
		return err
	}
	defer release()
	return fn(svc)
}
