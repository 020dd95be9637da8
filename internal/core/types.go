package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/palette"
)

// ErrNoContrastPair is returned when fixing the original step, which has no
// foreground colors.
var ErrNoContrastPair = errors.New("the original step has no contrast pair")

// FamilyInfo is a family plus its configured default and edit state.
type FamilyInfo struct {
	palette.Family
	Default palette.HSL `json:"default"`
	Edited  bool        `json:"edited"`
}

// FixRequest addresses one foreground in one mode.
type FixRequest struct {
	Family  string          `json:"family"`
	Step    palette.Step    `json:"step"`
	Variant palette.Variant `json:"variant"`
	Mode    palette.Mode    `json:"mode"`
}

// Normalize validates every field. Empty variant and mode default to "on"
// and light.
func (r FixRequest) Normalize() (FixRequest, error) {
	step, err := palette.ParseStep(string(r.Step))
	if err != nil {
		return r, err
	}
	if step == palette.StepOriginal {
		return r, ErrNoContrastPair
	}
	v, err := palette.ParseVariant(string(r.Variant))
	if err != nil {
		return r, err
	}
	mode, err := palette.ParseMode(string(r.Mode))
	if err != nil {
		return r, err
	}
	return FixRequest{Family: r.Family, Step: step, Variant: v, Mode: mode}, nil
}

// FixResponse reports the outcome of one correction.
type FixResponse struct {
	Key string `json:"key"`
	FixRequest
	Result a11y.Result `json:"result"`
}

// OverrideEntry is the wire form of one override.
type OverrideEntry struct {
	Key     string          `json:"key"`
	Family  string          `json:"family"`
	Step    palette.Step    `json:"step"`
	Variant palette.Variant `json:"variant"`
	Light   float64         `json:"light"`
	Dark    float64         `json:"dark"`
	Updated time.Time       `json:"updated"`
}

// OverrideKey validates the addressed foreground.
func (e OverrideEntry) OverrideKey() (palette.OverrideKey, error) {
	step, err := palette.ParseStep(string(e.Step))
	if err != nil {
		return palette.OverrideKey{}, err
	}
	if step == palette.StepOriginal {
		return palette.OverrideKey{}, ErrNoContrastPair
	}
	v, err := palette.ParseVariant(string(e.Variant))
	if err != nil {
		return palette.OverrideKey{}, err
	}
	return palette.OverrideKey{Family: e.Family, Step: step, Variant: v}, nil
}

// Override converts the entry, rejecting out-of-range lightness.
func (e OverrideEntry) Override() (palette.Override, error) {
	ov := palette.Override{Light: e.Light, Dark: e.Dark, Updated: e.Updated}
	if !ov.Valid() {
		return ov, fmt.Errorf("override lightness must be within 0-100 (light %g, dark %g)", e.Light, e.Dark)
	}
	return ov, nil
}

func entryFor(key palette.OverrideKey, ov palette.Override) OverrideEntry {
	return OverrideEntry{
		Key:     key.String(),
		Family:  key.Family,
		Step:    key.Step,
		Variant: key.Variant,
		Light:   ov.Light,
		Dark:    ov.Dark,
		Updated: ov.Updated,
	}
}

func fixResponse(req FixRequest, res a11y.Result) FixResponse {
	key := palette.OverrideKey{Family: req.Family, Step: req.Step, Variant: req.Variant}
	return FixResponse{Key: key.String(), FixRequest: req, Result: res}
}
