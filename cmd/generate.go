package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/clipboard"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/tokens"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"export"},
	Short:   "Write the design-token JSON export",
	Long:    `Generate the full token document (color styles, components, primitive colors and primitive variables) with every recorded contrast fix applied.`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)
		st := mustOpenStore(settings)

		toStdout, _ := cmd.Flags().GetBool("stdout")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = settings.General.ExportFilename
		}

		data, err := exportJSON(st, tokenOptions(settings))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating tokens: %v\n", err)
			os.Exit(1)
		}

		if toStdout {
			_, _ = os.Stdout.Write(append(data, '\n'))
			return
		}
		if err := writeFile(output, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(data), output)
	},
}

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the CSS custom properties",
	Long:  `Print the light-dark() CSS variables and utility classes. Use --base for just the per-family HSL block, or --vars to omit the classes.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)
		st := mustOpenStore(settings)

		base, _ := cmd.Flags().GetBool("base")
		varsOnly, _ := cmd.Flags().GetBool("vars")
		fmt.Print(cssText(st, tokenOptions(settings), cssKind(base, varsOnly)))
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [css|vars|base|tokens]",
	Short: "Copy generated output to the clipboard",
	Long:  `Copy the stylesheet (default), the variables only, the HSL base block or the token JSON to the system clipboard. Without a clipboard the text is printed to stdout instead.`,
	Args:  cobra.MaximumNArgs(1),
	ValidArgs: []string{
		"css", "vars", "base", "tokens",
	},
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)
		st := mustOpenStore(settings)

		what := "css"
		if len(args) == 1 {
			what = args[0]
		}

		var text string
		switch what {
		case "css", "vars", "base":
			text = cssText(st, tokenOptions(settings), what)
		case "tokens":
			data, err := exportJSON(st, tokenOptions(settings))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error generating tokens: %v\n", err)
				os.Exit(1)
			}
			text = string(data)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown output %q (want css, vars, base or tokens)\n", what)
			os.Exit(1)
		}

		if err := copyText(text, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func exportJSON(st *store.Store, opts tokens.Options) ([]byte, error) {
	return tokens.Build(st.Families(), st.Overrides(), opts).Marshal()
}

func cssKind(base, varsOnly bool) string {
	switch {
	case base:
		return "base"
	case varsOnly:
		return "vars"
	}
	return "css"
}

// cssText renders one of the CSS outputs: "css" (variables and classes),
// "vars" or "base".
func cssText(st *store.Store, opts tokens.Options, kind string) string {
	switch kind {
	case "base":
		return tokens.BaseBlock(st.Families(), opts)
	case "vars":
		return tokens.Variables(st.Families(), st.Overrides(), opts)
	}
	return tokens.Stylesheet(st.Families(), st.Overrides(), opts)
}

// copyText copies to the clipboard, falling back to out, and reports which
// path was taken on status.
func copyText(text string, out, status io.Writer) error {
	method, err := clipboard.Copy(text, out)
	if err != nil {
		return err
	}
	if method == clipboard.MethodClipboard {
		fmt.Fprintf(status, "Copied %d characters to the clipboard\n", len(text))
	} else {
		fmt.Fprintln(status, "No clipboard available; printed to stdout instead")
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd, cssCmd, copyCmd)

	generateCmd.Flags().StringP("output", "o", "", "Output file (default from settings)")
	generateCmd.Flags().Bool("stdout", false, "Print to stdout instead of writing a file")

	cssCmd.Flags().Bool("base", false, "Only print the per-family HSL block")
	cssCmd.Flags().Bool("vars", false, "Omit the utility classes")
}
