package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/clipboard"
	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tui"
)

var hslCmd = &cobra.Command{
	Use:   "hsl",
	Short: "Show or edit family base colors",
	Long:  `List every family with its base HSL color. Edited families are marked with '*' and show their configured default.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)
		return withService(settings, func(svc core.PaletteService) error {
			families, err := svc.Families()
			if err != nil {
				return err
			}
			printFamilies(os.Stdout, families)
			return nil
		})
	},
}

var hslSetCmd = &cobra.Command{
	Use:   "set [family] [<h> <s> <l> | <color>]",
	Short: "Set a family's base color",
	Long: `Set a family's base color from three numbers, a hex color or an hsl()
expression. With --paste the color is read from the clipboard. Without a
color (or without any argument) the values are asked for interactively.`,
	Args: cobra.RangeArgs(0, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)
		paste, _ := cmd.Flags().GetBool("paste")

		return withService(settings, func(svc core.PaletteService) error {
			family, color, err := resolveSetArgs(svc, args, paste)
			if err != nil {
				return err
			}
			info, err := svc.SetBase(family, color)
			if err != nil {
				return err
			}
			fmt.Printf("%s set to %s\n", info.Name, info.HSL)
			return nil
		})
	},
}

var hslResetCmd = &cobra.Command{
	Use:   "reset [family]",
	Short: "Restore configured base colors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)

		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return fmt.Errorf("provide a family or use --all")
		}

		return withService(settings, func(svc core.PaletteService) error {
			targets := args
			if all {
				families, err := svc.Families()
				if err != nil {
					return err
				}
				targets = nil
				for _, f := range families {
					if f.Edited {
						targets = append(targets, f.ID)
					}
				}
			}

			for _, id := range targets {
				info, err := svc.ResetBase(id)
				if err != nil {
					return err
				}
				fmt.Printf("%s reset to %s\n", info.Name, info.HSL)
			}
			if len(targets) == 0 {
				fmt.Println("No edited families.")
			}
			return nil
		})
	},
}

// resolveSetArgs picks the family and color for "hsl set", prompting for
// whatever the arguments leave out.
func resolveSetArgs(svc core.PaletteService, args []string, paste bool) (string, palette.HSL, error) {
	if len(args) > 0 && (paste || len(args) > 1) {
		color, err := readColorArg(args[1:], paste)
		return args[0], color, err
	}

	families, err := svc.Families()
	if err != nil {
		return "", palette.HSL{}, err
	}

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		if paste {
			return "", palette.HSL{}, fmt.Errorf("--paste needs a family")
		}
		choices := make([]tui.FamilyChoice, len(families))
		for i, f := range families {
			choices[i] = tui.FamilyChoice{ID: f.ID, Name: f.Name, HSL: f.HSL, Edited: f.Edited}
		}
		if id, err = tui.PromptFamily(choices); err != nil {
			return "", palette.HSL{}, err
		}
	}

	for _, f := range families {
		if f.ID == id || (f.Alert() && f.ShortID() == id) {
			color, err := tui.PromptHSL(f.Name, f.HSL)
			return f.ID, color, err
		}
	}
	return "", palette.HSL{}, fmt.Errorf("%w: %q", palette.ErrUnknownFamily, id)
}

// readColorArg parses the color arguments, or reads the clipboard when
// paste is set.
func readColorArg(args []string, paste bool) (palette.HSL, error) {
	if !paste {
		return parseHSLArgs(args)
	}
	if len(args) > 0 {
		return palette.HSL{}, fmt.Errorf("--paste takes no color arguments")
	}
	color, ok := clipboard.ReadColor()
	if !ok {
		return palette.HSL{}, fmt.Errorf("the clipboard does not hold a color")
	}
	return color, nil
}

func printFamilies(w io.Writer, families []core.FamilyInfo) {
	for _, f := range families {
		mark := " "
		if f.Edited {
			mark = "*"
		}
		line := fmt.Sprintf("%s %-16s %-10s %s", mark, f.ID, f.Name, f.HSL)
		if f.Edited {
			line += fmt.Sprintf("  (default %s)", f.Default)
		}
		fmt.Fprintln(w, line)
	}
}

var hslImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply base colors from a TOML or JSON file",
	Long: `Apply base colors from a file mapping family IDs to h, s and l values.
Files ending in .toml are read as TOML:

  [primary]
  h = 216
  s = 58
  l = 48

anything else as JSON ({"primary": {"h": 216, "s": 58, "l": 48}}). Every
family must exist; nothing is applied otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)

		bases, err := readBaseFile(args[0])
		if err != nil {
			return err
		}

		return withService(settings, func(svc core.PaletteService) error {
			applied, err := importBases(svc, bases)
			if err != nil {
				return err
			}
			for _, info := range applied {
				fmt.Printf("%s set to %s\n", info.Name, info.HSL)
			}
			return nil
		})
	},
}

var hslExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current base colors as TOML or JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)
		st := mustOpenStore(settings)

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format == "" {
			format = "toml"
			if strings.HasSuffix(strings.ToLower(output), ".json") {
				format = "json"
			}
		}

		var buf bytes.Buffer
		if err := writeBases(&buf, st.Families(), format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if output == "" {
			_, _ = os.Stdout.Write(buf.Bytes())
			return
		}
		if err := writeFile(output, bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", output)
	},
}

// readBaseFile loads a family -> HSL map. The extension picks the format.
func readBaseFile(path string) (map[string]palette.HSL, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var bases map[string]palette.HSL
		if _, err := toml.DecodeFile(path, &bases); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return bases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bases, err := parseImport(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return bases, nil
}

// importBases validates every family before applying any color, then
// applies them in family order.
func importBases(svc core.PaletteService, bases map[string]palette.HSL) ([]core.FamilyInfo, error) {
	families, err := svc.Families()
	if err != nil {
		return nil, err
	}
	known := make([]palette.Family, len(families))
	for i, f := range families {
		known[i] = f.Family
	}

	resolved := make(map[string]palette.HSL, len(bases))
	for id, hsl := range bases {
		f, err := palette.FindFamily(known, id)
		if err != nil {
			return nil, err
		}
		if _, dup := resolved[f.ID]; dup {
			return nil, fmt.Errorf("family %s given more than once", f.ID)
		}
		resolved[f.ID] = hsl
	}

	var applied []core.FamilyInfo
	for _, f := range known {
		hsl, ok := resolved[f.ID]
		if !ok {
			continue
		}
		info, err := svc.SetBase(f.ID, hsl)
		if err != nil {
			return applied, err
		}
		applied = append(applied, info)
	}
	return applied, nil
}

// writeBases renders the base colors of families as "toml" or "json".
func writeBases(w io.Writer, families []palette.Family, format string) error {
	bases := make(map[string]palette.HSL, len(families))
	for _, f := range families {
		bases[f.ID] = f.HSL
	}

	switch strings.ToLower(format) {
	case "toml":
		return toml.NewEncoder(w).Encode(bases)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(bases)
	}
	return fmt.Errorf("unknown format %q (want toml or json)", format)
}

func init() {
	rootCmd.AddCommand(hslCmd)
	hslCmd.AddCommand(hslSetCmd, hslResetCmd, hslImportCmd, hslExportCmd)

	hslExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	hslExportCmd.Flags().String("format", "", "toml or json (default from the output extension, else toml)")

	hslSetCmd.Flags().Bool("paste", false, "Read the color from the clipboard")
	hslResetCmd.Flags().Bool("all", false, "Reset every edited family")
}
