package palette

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownFamily  = errors.New("unknown color family")
	ErrUnknownStep    = errors.New("unknown step")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrUnknownVariant = errors.New("unknown variant")
)

// Family is a named color scale seeded by one base HSL color.
type Family struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	HSL
}

// BackgroundLightness resolves the background lightness for a step. The
// original step uses the family's own lightness; base is pinned by the table.
func (f Family) BackgroundLightness(step Step, mode Mode) float64 {
	if step == StepOriginal {
		return f.L
	}
	return BackgroundLightness(step, mode)
}

// Alert reports whether the family lives under the "alerts" export group.
func (f Family) Alert() bool {
	return strings.HasPrefix(f.ID, "alerts-")
}

// ShortID strips the "alerts-" prefix ("alerts-danger" -> "danger").
func (f Family) ShortID() string {
	return strings.TrimPrefix(f.ID, "alerts-")
}

// DefaultFamilies is the stock Optics-style family set.
func DefaultFamilies() []Family {
	return []Family{
		{ID: "primary", Name: "Primary", HSL: HSL{H: 216, S: 58, L: 48}},
		{ID: "neutral", Name: "Neutral", HSL: HSL{H: 120, S: 6, L: 49}},
		{ID: "alerts-warning", Name: "Warning", HSL: HSL{H: 48, S: 100, L: 50}},
		{ID: "alerts-danger", Name: "Danger", HSL: HSL{H: 0, S: 99, L: 50}},
		{ID: "alerts-info", Name: "Info", HSL: HSL{H: 216, S: 58, L: 48}},
		{ID: "alerts-notice", Name: "Notice", HSL: HSL{H: 133, S: 61, L: 52}},
	}
}

// FindFamily looks a family up by ID. The short alert name ("danger") is
// accepted as well.
func FindFamily(families []Family, id string) (Family, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, f := range families {
		if f.ID == id || (f.Alert() && f.ShortID() == id) {
			return f, nil
		}
	}
	return Family{}, fmt.Errorf("%w: %q", ErrUnknownFamily, id)
}

// OverrideKey addresses one foreground of one swatch.
type OverrideKey struct {
	Family  string
	Step    Step
	Variant Variant
}

// String renders the persisted key form, e.g. "primary-base-on".
func (k OverrideKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Family, k.Step, k.Variant)
}

// Override pins a foreground lightness per mode.
type Override struct {
	Light   float64   `json:"light"`
	Dark    float64   `json:"dark"`
	Updated time.Time `json:"updated"`
}

// For returns the override lightness for a mode.
func (o Override) For(mode Mode) float64 {
	if mode == ModeDark {
		return o.Dark
	}
	return o.Light
}

// With returns a copy with the mode's lightness replaced.
func (o Override) With(mode Mode, lightness float64, at time.Time) Override {
	if mode == ModeDark {
		o.Dark = lightness
	} else {
		o.Light = lightness
	}
	o.Updated = at
	return o
}

// Valid rejects overrides whose lightness values fall outside 0-100.
func (o Override) Valid() bool {
	return o.Light >= 0 && o.Light <= 100 && o.Dark >= 0 && o.Dark <= 100
}

// OverrideSource resolves overrides during generation.
type OverrideSource interface {
	Lookup(key OverrideKey) (Override, bool)
}

// Overrides is an in-memory override map.
type Overrides map[OverrideKey]Override

func (o Overrides) Lookup(key OverrideKey) (Override, bool) {
	ov, ok := o[key]
	return ov, ok
}

// Clone copies the map.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
