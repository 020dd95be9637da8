// Package a11y measures WCAG contrast between swatch colors and corrects
// foreground lightness values that fall short of the AA threshold.
package a11y

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tonekit/tonekit/internal/palette"
)

// TargetRatio is the WCAG AA threshold for normal-size text.
const TargetRatio = 4.5

// Level is a WCAG conformance grade.
type Level string

const (
	LevelAAA  Level = "AAA"
	LevelAA   Level = "AA"
	LevelFail Level = "FAIL"
)

// Classify grades a contrast ratio. Large text uses the relaxed 4.5/3
// thresholds.
func Classify(ratio float64, largeText bool) Level {
	if largeText {
		switch {
		case ratio >= 4.5:
			return LevelAAA
		case ratio >= 3:
			return LevelAA
		}
		return LevelFail
	}
	switch {
	case ratio >= 7:
		return LevelAAA
	case ratio >= 4.5:
		return LevelAA
	}
	return LevelFail
}

func linearize(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.RGB255()
	return 0.2126*linearize(float64(r)/255) +
		0.7152*linearize(float64(g)/255) +
		0.0722*linearize(float64(b)/255)
}

// Luminance returns the WCAG relative luminance of a hex color.
func Luminance(hex string) (float64, error) {
	c, err := palette.ParseHex(hex)
	if err != nil {
		return 0, err
	}
	return relativeLuminance(c), nil
}

// ContrastRatio returns (lighter+0.05)/(darker+0.05). It is symmetric and a
// color against itself yields exactly 1. Unparseable input yields 1.
func ContrastRatio(a, b string) float64 {
	la, err := Luminance(a)
	if err != nil {
		return 1
	}
	lb, err := Luminance(b)
	if err != nil {
		return 1
	}
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// Report is the measured contrast of one foreground.
type Report struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio"`
	Level      Level   `json:"level"`
}

// Passing reports whether the pair meets the AA target.
func (r Report) Passing() bool {
	return r.Ratio >= TargetRatio
}

// Indicator holds the contrast reports of both foregrounds of a swatch.
type Indicator struct {
	Family string       `json:"family"`
	Step   palette.Step `json:"step"`
	Mode   palette.Mode `json:"mode"`
	On     Report       `json:"on"`
	OnAlt  Report       `json:"onAlt"`
}

// Report returns the report for a variant.
func (i Indicator) Report(v palette.Variant) Report {
	if v == palette.VariantAlt {
		return i.OnAlt
	}
	return i.On
}

// Measure builds a report for a foreground/background pair (normal text).
func Measure(foreground, background string) Report {
	ratio := ContrastRatio(foreground, background)
	return Report{
		Foreground: foreground,
		Background: background,
		Ratio:      ratio,
		Level:      Classify(ratio, false),
	}
}

// Check measures both foregrounds of a swatch.
func Check(sw palette.Swatch) Indicator {
	return Indicator{
		Family: sw.Family,
		Step:   sw.Step,
		Mode:   sw.Mode,
		On:     Measure(sw.On, sw.Background),
		OnAlt:  Measure(sw.OnAlt, sw.Background),
	}
}

// CheckTree measures every swatch of a mode, skipping the original step
// which carries no indicator.
func CheckTree(tree palette.Tree, mode palette.Mode) []Indicator {
	var out []Indicator
	for _, fp := range tree.Families {
		for _, sw := range fp.Modes[mode] {
			if sw.Step == palette.StepOriginal {
				continue
			}
			out = append(out, Check(sw))
		}
	}
	return out
}
