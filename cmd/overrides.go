package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/palette"
)

var overridesCmd = &cobra.Command{
	Use:     "overrides",
	Aliases: []string{"ov"},
	Short:   "List recorded text color overrides",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)
		return withService(settings, func(svc core.PaletteService) error {
			entries, err := svc.Overrides()
			if err != nil {
				return err
			}
			printOverrides(os.Stdout, entries)
			return nil
		})
	},
}

var overridesSetCmd = &cobra.Command{
	Use:   "set <family> <step> <variant>",
	Short: "Pin a text color lightness",
	Long:  `Record an override for one foreground. Modes without a flag keep their current override or table value.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)

		entry := core.OverrideEntry{
			Family:  args[0],
			Step:    palette.Step(args[1]),
			Variant: palette.Variant(args[2]),
		}
		key, err := entry.OverrideKey()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("light") && !cmd.Flags().Changed("dark") {
			return fmt.Errorf("provide --light and/or --dark")
		}

		return withService(settings, func(svc core.PaletteService) error {
			entry := currentOverride(svc, key)
			if cmd.Flags().Changed("light") {
				entry.Light, _ = cmd.Flags().GetFloat64("light")
			}
			if cmd.Flags().Changed("dark") {
				entry.Dark, _ = cmd.Flags().GetFloat64("dark")
			}
			entry.Updated = time.Now()

			if err := svc.SetOverride(entry); err != nil {
				return err
			}
			fmt.Printf("%s: light %g%%, dark %g%%\n", entry.Key, entry.Light, entry.Dark)
			return nil
		})
	},
}

var overridesResetCmd = &cobra.Command{
	Use:   "reset [family step variant]",
	Short: "Remove overrides",
	Long:  `Remove one override, or every override when no foreground is given.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected no arguments or family, step and variant")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)

		var key palette.OverrideKey
		if len(args) == 3 {
			var err error
			key, err = core.OverrideEntry{Family: args[0], Step: palette.Step(args[1]), Variant: palette.Variant(args[2])}.OverrideKey()
			if err != nil {
				return err
			}
		}

		return withService(settings, func(svc core.PaletteService) error {
			if len(args) == 0 {
				if err := svc.ResetOverrides(); err != nil {
					return err
				}
				fmt.Println("Removed all overrides.")
				return nil
			}
			if err := svc.DeleteOverride(key); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", key)
			return nil
		})
	},
}

// currentOverride returns the recorded override for key, or the table values
// when none exists.
func currentOverride(svc core.PaletteService, key palette.OverrideKey) core.OverrideEntry {
	// Accept short alert names ("danger") like the rest of the CLI
	if families, err := svc.Families(); err == nil {
		for _, f := range families {
			if f.Alert() && f.ShortID() == key.Family {
				key.Family = f.ID
			}
		}
	}

	entry := core.OverrideEntry{
		Key:     key.String(),
		Family:  key.Family,
		Step:    key.Step,
		Variant: key.Variant,
		Light:   palette.ForegroundLightness(key.Step, palette.ModeLight, key.Variant),
		Dark:    palette.ForegroundLightness(key.Step, palette.ModeDark, key.Variant),
	}
	entries, err := svc.Overrides()
	if err != nil {
		return entry
	}
	for _, e := range entries {
		if e.Key == key.String() {
			return e
		}
	}
	return entry
}

func printOverrides(w io.Writer, entries []core.OverrideEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No overrides recorded.")
		return
	}
	fmt.Fprintf(w, "%-32s %6s %6s  %s\n", "KEY", "LIGHT", "DARK", "UPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%-32s %5g%% %5g%%  %s\n", e.Key, e.Light, e.Dark, e.Updated.Local().Format(time.DateTime))
	}
}

func init() {
	rootCmd.AddCommand(overridesCmd)
	overridesCmd.AddCommand(overridesSetCmd, overridesResetCmd)

	overridesSetCmd.Flags().Float64("light", 0, "Light mode lightness (0-100)")
	overridesSetCmd.Flags().Float64("dark", 0, "Dark mode lightness (0-100)")
}
