package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tui/colors"
)

// FamilyChoice is one entry of the family picker.
type FamilyChoice struct {
	ID     string
	Name   string
	HSL    palette.HSL
	Edited bool
}

func promptTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colors.Accent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colors.Muted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(colors.Accent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colors.Highlight)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(colors.Text)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colors.Muted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(colors.Border)

	return t
}

// validateComponent accepts a number within [0, max], with an optional
// trailing % or "deg".
func validateComponent(max float64) func(string) error {
	return func(s string) error {
		_, err := parseComponent(s, max)
		return err
	}
}

func parseComponent(s string, max float64) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "%"), "deg")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("must be between 0 and %g", max)
	}
	return v, nil
}

// familyOptions labels each family with its current color; edited ones are
// starred.
func familyOptions(families []FamilyChoice) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(families))
	for _, f := range families {
		label := fmt.Sprintf("%-10s %s", f.Name, f.HSL)
		if f.Edited {
			label += " *"
		}
		options = append(options, huh.NewOption(label, f.ID))
	}
	return options
}

// PromptFamily asks which family to edit.
func PromptFamily(families []FamilyChoice) (string, error) {
	if len(families) == 0 {
		return "", fmt.Errorf("no families configured")
	}
	selected := families[0].ID
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Family").
				Description("Base color to edit. Edited families are marked with *.").
				Options(familyOptions(families)...).
				Value(&selected),
		),
	).WithTheme(promptTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

// PromptHSL asks for a new base color, prefilled with current.
func PromptHSL(name string, current palette.HSL) (palette.HSL, error) {
	h := formatComponent(current.H)
	s := formatComponent(current.S)
	l := formatComponent(current.L)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s hue", name)).
				Description("Degrees, 0-360.").
				Placeholder(h).
				Value(&h).
				Validate(validateComponent(360)),
			huh.NewInput().
				Title("Saturation").
				Description("Percent, 0-100.").
				Placeholder(s).
				Value(&s).
				Validate(validateComponent(100)),
			huh.NewInput().
				Title("Lightness").
				Description("Percent, 0-100. Only the original step uses it directly.").
				Placeholder(l).
				Value(&l).
				Validate(validateComponent(100)),
		),
	).WithTheme(promptTheme())

	if err := form.Run(); err != nil {
		return current, err
	}
	return hslFromStrings(h, s, l)
}

func hslFromStrings(h, s, l string) (palette.HSL, error) {
	hv, err := parseComponent(h, 360)
	if err != nil {
		return palette.HSL{}, fmt.Errorf("hue: %w", err)
	}
	sv, err := parseComponent(s, 100)
	if err != nil {
		return palette.HSL{}, fmt.Errorf("saturation: %w", err)
	}
	lv, err := parseComponent(l, 100)
	if err != nil {
		return palette.HSL{}, fmt.Errorf("lightness: %w", err)
	}
	return palette.Clamp(palette.HSL{H: hv, S: sv, L: lv}), nil
}
