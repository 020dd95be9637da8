package palette

// Swatch is one generated step in one mode.
type Swatch struct {
	Family string `json:"family"`
	Step   Step   `json:"step"`
	Mode   Mode   `json:"mode"`

	Background string `json:"background"`
	On         string `json:"on"`
	OnAlt      string `json:"onAlt"`

	BackgroundLightness float64 `json:"backgroundLightness"`
	OnLightness         float64 `json:"onLightness"`
	OnAltLightness      float64 `json:"onAltLightness"`

	OnOverridden    bool `json:"onOverridden,omitempty"`
	OnAltOverridden bool `json:"onAltOverridden,omitempty"`
}

// Foreground returns the hex and lightness of a variant.
func (s Swatch) Foreground(v Variant) (string, float64) {
	if v == VariantAlt {
		return s.OnAlt, s.OnAltLightness
	}
	return s.On, s.OnLightness
}

// FamilyPalette is the full ramp of one family in both modes.
type FamilyPalette struct {
	Family Family            `json:"family"`
	Modes  map[Mode][]Swatch `json:"modes"`
}

// Swatch finds a step in one mode.
func (p FamilyPalette) Swatch(step Step, mode Mode) (Swatch, bool) {
	for _, s := range p.Modes[mode] {
		if s.Step == step {
			return s, true
		}
	}
	return Swatch{}, false
}

// Tree is the generated palette for every family, in family order.
type Tree struct {
	Families []FamilyPalette `json:"families"`
}

// Family returns the generated palette of one family.
func (t Tree) Family(id string) (FamilyPalette, bool) {
	for _, p := range t.Families {
		if p.Family.ID == id {
			return p, true
		}
	}
	return FamilyPalette{}, false
}

// Generate builds every step of a family in both modes. A nil override
// source means "table values only".
func Generate(f Family, overrides OverrideSource) FamilyPalette {
	p := FamilyPalette{
		Family: f,
		Modes:  make(map[Mode][]Swatch, len(Modes)),
	}
	for _, mode := range Modes {
		swatches := make([]Swatch, 0, len(Steps))
		for _, step := range Steps {
			swatches = append(swatches, GenerateSwatch(f, step, mode, overrides))
		}
		p.Modes[mode] = swatches
	}
	return p
}

// GenerateAll generates every family.
func GenerateAll(families []Family, overrides OverrideSource) Tree {
	t := Tree{Families: make([]FamilyPalette, 0, len(families))}
	for _, f := range families {
		t.Families = append(t.Families, Generate(f, overrides))
	}
	return t
}

// GenerateSwatch computes a single (family, step, mode) swatch.
func GenerateSwatch(f Family, step Step, mode Mode, overrides OverrideSource) Swatch {
	bgL := f.BackgroundLightness(step, mode)
	onL, onOv := foreground(f, step, mode, VariantOn, overrides)
	altL, altOv := foreground(f, step, mode, VariantAlt, overrides)

	return Swatch{
		Family:              f.ID,
		Step:                step,
		Mode:                mode,
		Background:          HSLToHex(f.H, f.S, bgL),
		On:                  HSLToHex(f.H, f.S, onL),
		OnAlt:               HSLToHex(f.H, f.S, altL),
		BackgroundLightness: bgL,
		OnLightness:         onL,
		OnAltLightness:      altL,
		OnOverridden:        onOv,
		OnAltOverridden:     altOv,
	}
}

// ResolveForeground returns the effective foreground lightness, honoring
// overrides.
func ResolveForeground(f Family, step Step, mode Mode, v Variant, overrides OverrideSource) float64 {
	l, _ := foreground(f, step, mode, v, overrides)
	return l
}

func foreground(f Family, step Step, mode Mode, v Variant, overrides OverrideSource) (float64, bool) {
	if overrides != nil {
		if ov, ok := overrides.Lookup(OverrideKey{Family: f.ID, Step: step, Variant: v}); ok {
			return ov.For(mode), true
		}
	}
	return ForegroundLightness(step, mode, v), false
}
