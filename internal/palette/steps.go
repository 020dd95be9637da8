package palette

import (
	"fmt"
	"strings"
)

// Step identifies one rung of a color ramp.
type Step string

const (
	StepOriginal   Step = "original"
	StepPlusMax    Step = "plus-max"
	StepPlusEight  Step = "plus-eight"
	StepPlusSeven  Step = "plus-seven"
	StepPlusSix    Step = "plus-six"
	StepPlusFive   Step = "plus-five"
	StepPlusFour   Step = "plus-four"
	StepPlusThree  Step = "plus-three"
	StepPlusTwo    Step = "plus-two"
	StepPlusOne    Step = "plus-one"
	StepBase       Step = "base"
	StepMinusOne   Step = "minus-one"
	StepMinusTwo   Step = "minus-two"
	StepMinusThree Step = "minus-three"
	StepMinusFour  Step = "minus-four"
	StepMinusFive  Step = "minus-five"
	StepMinusSix   Step = "minus-six"
	StepMinusSeven Step = "minus-seven"
	StepMinusEight Step = "minus-eight"
	StepMinusMax   Step = "minus-max"
)

// Steps lists every step from lightest to darkest (in light mode), with the
// family's original color first.
var Steps = []Step{
	StepOriginal,
	StepPlusMax, StepPlusEight, StepPlusSeven, StepPlusSix, StepPlusFive,
	StepPlusFour, StepPlusThree, StepPlusTwo, StepPlusOne,
	StepBase,
	StepMinusOne, StepMinusTwo, StepMinusThree, StepMinusFour, StepMinusFive,
	StepMinusSix, StepMinusSeven, StepMinusEight, StepMinusMax,
}

// Group returns the export group a step belongs to: "plus", "minus",
// "base" or "original".
func (s Step) Group() string {
	switch {
	case s == StepOriginal:
		return "original"
	case s == StepBase:
		return "base"
	case strings.HasPrefix(string(s), "plus-"):
		return "plus"
	default:
		return "minus"
	}
}

// Rung is the step name inside its group ("max", "one", ...). Base and
// original steps return their own name.
func (s Step) Rung() string {
	g := s.Group()
	if g == "plus" || g == "minus" {
		return strings.TrimPrefix(string(s), g+"-")
	}
	return string(s)
}

// ParseStep validates a step identifier.
func ParseStep(v string) (Step, error) {
	s := Step(strings.ToLower(strings.TrimSpace(v)))
	if _, ok := tables[ModeLight].bg[s]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, v)
}

// Mode selects the light or dark display variant.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Modes in export order.
var Modes = []Mode{ModeLight, ModeDark}

// ParseMode validates a mode name. An empty string selects light mode.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, v)
}

// Variant is a foreground flavor drawn on top of a step background.
type Variant string

const (
	VariantOn  Variant = "on"
	VariantAlt Variant = "alt"
)

// Variants in export order.
var Variants = []Variant{VariantOn, VariantAlt}

// ParseVariant accepts "on", "alt" and "on-alt".
func ParseVariant(v string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "on":
		return VariantOn, nil
	case "alt", "on-alt":
		return VariantAlt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

type lightnessTable struct {
	bg    map[Step]float64
	on    map[Step]float64
	onAlt map[Step]float64
}

// tables is the single canonical lightness table. The background entry for
// StepOriginal is only a placeholder: generation uses the family lightness.
var tables = map[Mode]lightnessTable{
	ModeLight: {
		bg: map[Step]float64{
			StepOriginal: 40,
			StepPlusMax: 100, StepPlusEight: 98, StepPlusSeven: 96, StepPlusSix: 94, StepPlusFive: 90,
			StepPlusFour: 84, StepPlusThree: 70, StepPlusTwo: 64, StepPlusOne: 45,
			StepBase: 40,
			StepMinusOne: 36, StepMinusTwo: 32, StepMinusThree: 28, StepMinusFour: 24, StepMinusFive: 20,
			StepMinusSix: 16, StepMinusSeven: 8, StepMinusEight: 4, StepMinusMax: 0,
		},
		on: map[Step]float64{
			StepOriginal: 100,
			StepPlusMax: 0, StepPlusEight: 4, StepPlusSeven: 8, StepPlusSix: 16, StepPlusFive: 20,
			StepPlusFour: 24, StepPlusThree: 20, StepPlusTwo: 16, StepPlusOne: 100,
			StepBase: 100,
			StepMinusOne: 94, StepMinusTwo: 90, StepMinusThree: 86, StepMinusFour: 84, StepMinusFive: 88,
			StepMinusSix: 94, StepMinusSeven: 96, StepMinusEight: 98, StepMinusMax: 100,
		},
		onAlt: map[Step]float64{
			StepOriginal: 88,
			StepPlusMax: 20, StepPlusEight: 24, StepPlusSeven: 28, StepPlusSix: 26, StepPlusFive: 40,
			StepPlusFour: 4, StepPlusThree: 10, StepPlusTwo: 6, StepPlusOne: 95,
			StepBase: 88,
			StepMinusOne: 82, StepMinusTwo: 78, StepMinusThree: 74, StepMinusFour: 72, StepMinusFive: 78,
			StepMinusSix: 82, StepMinusSeven: 84, StepMinusEight: 86, StepMinusMax: 88,
		},
	},
	ModeDark: {
		bg: map[Step]float64{
			StepOriginal: 60,
			StepPlusMax: 12, StepPlusEight: 14, StepPlusSeven: 16, StepPlusSix: 20, StepPlusFive: 24,
			StepPlusFour: 26, StepPlusThree: 29, StepPlusTwo: 32, StepPlusOne: 35,
			StepBase: 38,
			StepMinusOne: 40, StepMinusTwo: 45, StepMinusThree: 48, StepMinusFour: 52, StepMinusFive: 64,
			StepMinusSix: 72, StepMinusSeven: 80, StepMinusEight: 88, StepMinusMax: 100,
		},
		on: map[Step]float64{
			StepOriginal: 100,
			StepPlusMax: 100, StepPlusEight: 88, StepPlusSeven: 80, StepPlusSix: 72, StepPlusFive: 72,
			StepPlusFour: 80, StepPlusThree: 78, StepPlusTwo: 80, StepPlusOne: 80,
			StepBase: 100,
			StepMinusOne: 98, StepMinusTwo: 98, StepMinusThree: 98, StepMinusFour: 2, StepMinusFive: 2,
			StepMinusSix: 8, StepMinusSeven: 8, StepMinusEight: 4, StepMinusMax: 0,
		},
		onAlt: map[Step]float64{
			StepOriginal: 84,
			StepPlusMax: 78, StepPlusEight: 70, StepPlusSeven: 64, StepPlusSix: 96, StepPlusFive: 86,
			StepPlusFour: 92, StepPlusThree: 98, StepPlusTwo: 92, StepPlusOne: 98,
			StepBase: 84,
			StepMinusOne: 90, StepMinusTwo: 92, StepMinusThree: 96, StepMinusFour: 2, StepMinusFive: 20,
			StepMinusSix: 26, StepMinusSeven: 34, StepMinusEight: 38, StepMinusMax: 38,
		},
	},
}

// BackgroundLightness returns the table background lightness. For
// StepOriginal callers should use the family lightness instead; see
// Family.BackgroundLightness.
func BackgroundLightness(step Step, mode Mode) float64 {
	return tables[mode].bg[step]
}

// ForegroundLightness returns the table lightness for a foreground variant.
func ForegroundLightness(step Step, mode Mode, v Variant) float64 {
	if v == VariantAlt {
		return tables[mode].onAlt[step]
	}
	return tables[mode].on[step]
}
