package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check [family]",
	Short: "Grade every text pair against WCAG contrast",
	Long:  `Print the contrast ratio and WCAG level of every on and on-alt color. With --strict the command exits with status 1 when any pair fails AA.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)
		st := mustOpenStore(settings)

		modeFlag, _ := cmd.Flags().GetString("mode")
		modes, err := parseModes(modeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		largeText, _ := cmd.Flags().GetBool("large-text")
		if !cmd.Flags().Changed("large-text") {
			largeText = settings.Editor.LargeText
		}
		strict, _ := cmd.Flags().GetBool("strict")

		tree := st.Tree()
		if len(args) == 1 {
			f, err := palette.FindFamily(st.Families(), args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fp, _ := tree.Family(f.ID)
			tree = palette.Tree{Families: []palette.FamilyPalette{fp}}
		}

		failing := writeReport(os.Stdout, tree, modes, largeText)
		if failing > 0 {
			fmt.Printf("\n%d pair(s) below AA. Run 'tonekit fix --all' to correct them.\n", failing)
			if strict {
				os.Exit(1)
			}
			return
		}
		fmt.Println("\nAll pairs meet AA.")
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [family step [variant]]",
	Short: "Correct a failing text color",
	Long: `Search the candidate lightness values for the one closest to the current
text color that reaches 4.5:1 against its background and record it as an
override for the given mode only. Use --all to fix every failing pair.`,
	Args: cobra.RangeArgs(0, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()
		settings := loadSettings(cmd)

		all, _ := cmd.Flags().GetBool("all")
		modeFlag, _ := cmd.Flags().GetString("mode")
		if all == (len(args) > 0) {
			return fmt.Errorf("provide a family and step, or use --all")
		}
		if !all && len(args) < 2 {
			return fmt.Errorf("provide both a family and a step")
		}

		return withService(settings, func(svc core.PaletteService) error {
			if all {
				modes, err := parseModes(modeFlag)
				if err != nil {
					return err
				}
				n, err := fixAll(svc, modes, os.Stdout)
				if err != nil {
					return err
				}
				fmt.Printf("Fixed %d pair(s).\n", n)
				return nil
			}

			req := core.FixRequest{Family: args[0], Step: palette.Step(args[1]), Mode: palette.Mode(modeFlag)}
			if len(args) == 3 {
				req.Variant = palette.Variant(args[2])
			}
			res, err := svc.Fix(req)
			if err != nil {
				return err
			}
			printFix(os.Stdout, res)
			return nil
		})
	},
}

// writeReport prints one line per swatch and returns the number of failing
// foregrounds.
func writeReport(w io.Writer, tree palette.Tree, modes []palette.Mode, largeText bool) int {
	header := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)

	failing := 0
	for _, fp := range tree.Families {
		fmt.Fprintln(w, header.Render(fmt.Sprintf("%s (%s) %s", fp.Family.Name, fp.Family.ID, fp.Family.HSL)))
		for _, mode := range modes {
			fmt.Fprintf(w, "  %s\n", muted.Render(string(mode)))
			for _, sw := range fp.Modes[mode] {
				if sw.Step == palette.StepOriginal {
					continue
				}
				ind := a11y.Check(sw)
				fmt.Fprintf(w, "    %-12s %s", sw.Step, sw.Background)
				for _, v := range palette.Variants {
					rep := ind.Report(v)
					level := a11y.Classify(rep.Ratio, largeText)
					if !rep.Passing() {
						failing++
					}
					fmt.Fprintf(w, "   %-3s %s %5.2f %s", v, rep.Foreground, rep.Ratio, tui.GradeStyle(level).Render(fmt.Sprintf("%-4s", level)))
				}
				fmt.Fprintln(w)
			}
		}
	}
	return failing
}

func printFix(w io.Writer, res core.FixResponse) {
	r := res.Result
	switch {
	case !r.Changed:
		fmt.Fprintf(w, "%s (%s) already passes at %.2f:1\n", res.Key, res.Mode, r.Ratio)
	case !r.Passed:
		fmt.Fprintf(w, "%s (%s): no candidate passes; snapped %g%% -> %g%% (%.2f:1)\n", res.Key, res.Mode, r.Previous, r.Lightness, r.Ratio)
	default:
		fmt.Fprintf(w, "%s (%s): %g%% -> %g%% (%.2f:1 %s)\n", res.Key, res.Mode, r.Previous, r.Lightness, r.Ratio, r.Level)
	}
}

func fixAll(svc core.PaletteService, modes []palette.Mode, w io.Writer) (int, error) {
	total := 0
	for _, mode := range modes {
		fixed, err := svc.FixAll(mode)
		for _, res := range fixed {
			printFix(w, res)
		}
		total += len(fixed)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func init() {
	rootCmd.AddCommand(checkCmd, fixCmd)

	checkCmd.Flags().String("mode", "all", "Mode to check (light, dark or all)")
	checkCmd.Flags().Bool("large-text", false, "Grade with the large-text thresholds (default from settings)")
	checkCmd.Flags().Bool("strict", false, "Exit with status 1 when any pair fails AA")

	fixCmd.Flags().String("mode", "light", "Mode to fix (light or dark; --all also accepts all)")
	fixCmd.Flags().Bool("all", false, "Fix every failing pair")
}
