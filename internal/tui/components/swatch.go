package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/palette"
)

// SwatchRow is one step of the ramp as rendered in the editor.
type SwatchRow struct {
	Swatch    palette.Swatch
	Indicator a11y.Indicator
	LargeText bool
	Selected  bool
	Variant   palette.Variant
}

// RenderSwatchRow draws the step name, a color chip with both foregrounds
// printed on it, and the contrast grade of each foreground.
func RenderSwatchRow(r SwatchRow, gradeStyle func(a11y.Level) lipgloss.Style, cursor, overridden lipgloss.Style) string {
	sw := r.Swatch
	chip := lipgloss.NewStyle().
		Background(lipgloss.Color(sw.Background)).
		Width(22).
		Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color(sw.On)).Render(" Aa on") +
				lipgloss.NewStyle().Foreground(lipgloss.Color(sw.OnAlt)).Render("  Aa alt "),
		)

	prefix := "  "
	if r.Selected {
		prefix = cursor.Render("▸ ")
	}

	name := fmt.Sprintf("%-12s", sw.Step)
	hex := fmt.Sprintf("%s %3.0f%%", sw.Background, sw.BackgroundLightness)

	if sw.Step == palette.StepOriginal {
		return prefix + name + " " + chip + " " + hex
	}

	grade := func(v palette.Variant) string {
		rep := r.Indicator.Report(v)
		level := a11y.Classify(rep.Ratio, r.LargeText)
		label := fmt.Sprintf("%-4s %5.2f", level, rep.Ratio)
		if r.Selected && r.Variant == v {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		out := gradeStyle(level).Render(label)
		if (v == palette.VariantOn && sw.OnOverridden) || (v == palette.VariantAlt && sw.OnAltOverridden) {
			out += overridden.Render("•")
		} else {
			out += " "
		}
		return out
	}

	return prefix + name + " " + chip + " " + hex + "  " + grade(palette.VariantOn) + " " + grade(palette.VariantAlt)
}
