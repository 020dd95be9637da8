package tokens

import (
	"fmt"
	"strings"

	"github.com/tonekit/tonekit/internal/palette"
)

func (o Options) varName(f palette.Family, suffix string) string {
	return fmt.Sprintf("--%s-color-%s-%s", o.prefix(), f.ID, suffix)
}

func (o Options) hsl(f palette.Family, lightness string) string {
	return fmt.Sprintf("hsl(var(%s) var(%s) %s)", o.varName(f, "h"), o.varName(f, "s"), lightness)
}

func (o Options) lightDark(f palette.Family, light, dark string) string {
	return fmt.Sprintf("light-dark(\n    %s,\n    %s\n  )", o.hsl(f, light), o.hsl(f, dark))
}

func percent(v float64) string {
	return formatNumber(v) + "%"
}

// Variables renders the :root block with the HSL primitives of every
// family and one background plus two foreground light-dark() properties per
// step. Overrides replace the table foreground for their mode.
func Variables(families []palette.Family, overrides palette.OverrideSource, opts Options) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, f := range families {
		writeBase(&b, f, opts)
		for _, step := range palette.Steps {
			light := palette.GenerateSwatch(f, step, palette.ModeLight, overrides)
			dark := palette.GenerateSwatch(f, step, palette.ModeDark, overrides)

			bgLight, bgDark := percent(light.BackgroundLightness), percent(dark.BackgroundLightness)
			if step == palette.StepOriginal {
				bgLight = fmt.Sprintf("var(%s)", opts.varName(f, "l"))
				bgDark = bgLight
			}
			fmt.Fprintf(&b, "  %s: %s;\n", opts.varName(f, string(step)), opts.lightDark(f, bgLight, bgDark))
			fmt.Fprintf(&b, "  %s: %s;\n", opts.varName(f, "on-"+string(step)),
				opts.lightDark(f, percent(light.OnLightness), percent(dark.OnLightness)))
			fmt.Fprintf(&b, "  %s: %s;\n", opts.varName(f, "on-"+string(step)+"-alt"),
				opts.lightDark(f, percent(light.OnAltLightness), percent(dark.OnAltLightness)))
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func writeBase(b *strings.Builder, f palette.Family, opts Options) {
	fmt.Fprintf(b, "  /* %s Scale */\n", f.Name)
	fmt.Fprintf(b, "  %s: %s;\n", opts.varName(f, "h"), formatNumber(f.H))
	fmt.Fprintf(b, "  %s: %s;\n", opts.varName(f, "s"), percent(f.S))
	fmt.Fprintf(b, "  %s: %s;\n", opts.varName(f, "l"), percent(f.L))
}

// BaseBlock renders only the HSL primitives, the block users paste into
// their own stylesheet.
func BaseBlock(families []palette.Family, opts Options) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for i, f := range families {
		if i > 0 {
			b.WriteString("\n")
		}
		writeBase(&b, f, opts)
	}
	b.WriteString("}\n")
	return b.String()
}

// Classes renders .family-step utility classes for backgrounds and both
// foregrounds.
func Classes(families []palette.Family, opts Options) string {
	var b strings.Builder
	for _, f := range families {
		for _, step := range palette.Steps {
			class := f.ID + "-" + string(step)
			fmt.Fprintf(&b, ".%s { background-color: var(%s); }\n", class, opts.varName(f, string(step)))
			fmt.Fprintf(&b, ".%s-on { color: var(%s); }\n", class, opts.varName(f, "on-"+string(step)))
			fmt.Fprintf(&b, ".%s-on-alt { color: var(%s); }\n", class, opts.varName(f, "on-"+string(step)+"-alt"))
		}
	}
	return b.String()
}

// Stylesheet is Variables followed by Classes.
func Stylesheet(families []palette.Family, overrides palette.OverrideSource, opts Options) string {
	return Variables(families, overrides, opts) + "\n" + Classes(families, opts)
}
