package a11y

import (
	"fmt"
	"math"
	"time"

	"github.com/tonekit/tonekit/internal/palette"
)

// Candidates is the fixed set of lightness values the corrector may pick.
var Candidates = []float64{
	0, 4, 8, 16, 20, 24, 28, 32, 36, 40, 45, 64, 70,
	78, 80, 82, 84, 86, 88, 90, 92, 94, 95, 96, 98, 100,
}

// Request describes a foreground that may need correcting.
type Request struct {
	Background          string
	Foreground          string
	ForegroundLightness float64
	Hue                 float64
	Saturation          float64
}

// Result is the outcome of a correction.
type Result struct {
	Lightness float64 `json:"lightness"`
	Previous  float64 `json:"previous"`
	Ratio     float64 `json:"ratio"`
	Level     Level   `json:"level"`
	Passed    bool    `json:"passed"`
	Changed   bool    `json:"changed"`
}

type candidate struct {
	lightness float64
	ratio     float64
}

// Correct picks the passing candidate closest to the current lightness,
// breaking ties by higher ratio. With no passing candidate it snaps to
// whichever extreme contrasts more. A pair that already passes is returned
// unchanged.
func Correct(req Request) Result {
	current := ContrastRatio(req.Foreground, req.Background)
	if current >= TargetRatio {
		return Result{
			Lightness: req.ForegroundLightness,
			Previous:  req.ForegroundLightness,
			Ratio:     current,
			Level:     Classify(current, false),
			Passed:    true,
		}
	}

	var (
		best   *candidate
		black  candidate
		white  candidate
		scored = make([]candidate, 0, len(Candidates))
	)
	for _, l := range Candidates {
		c := candidate{
			lightness: l,
			ratio:     ContrastRatio(palette.HSLToHex(req.Hue, req.Saturation, l), req.Background),
		}
		scored = append(scored, c)
		switch l {
		case 0:
			black = c
		case 100:
			white = c
		}
	}

	for i := range scored {
		c := &scored[i]
		if c.ratio < TargetRatio {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		dc := math.Abs(c.lightness - req.ForegroundLightness)
		db := math.Abs(best.lightness - req.ForegroundLightness)
		if dc < db || (dc == db && c.ratio > best.ratio) {
			best = c
		}
	}

	chosen := black
	if best != nil {
		chosen = *best
	} else if white.ratio > black.ratio {
		chosen = white
	}

	return Result{
		Lightness: chosen.lightness,
		Previous:  req.ForegroundLightness,
		Ratio:     chosen.ratio,
		Level:     Classify(chosen.ratio, false),
		Passed:    chosen.ratio >= TargetRatio,
		Changed:   chosen.lightness != req.ForegroundLightness,
	}
}

// Store is the slice of palette state the corrector needs.
type Store interface {
	Family(id string) (palette.Family, error)
	Families() []palette.Family
	Overrides() palette.Overrides
	RecordOverride(key palette.OverrideKey, ov palette.Override) error
}

// Corrector applies Correct to stored swatches and records overrides.
type Corrector struct {
	store Store
	now   func() time.Time
}

// NewCorrector binds a corrector to a store.
func NewCorrector(store Store) *Corrector {
	return &Corrector{store: store, now: time.Now}
}

// Fix corrects one foreground in one mode. Only the active mode's lightness
// is written; the other mode keeps its previous override or table value.
func (c *Corrector) Fix(familyID string, step palette.Step, v palette.Variant, mode palette.Mode) (Result, error) {
	f, err := c.store.Family(familyID)
	if err != nil {
		return Result{}, err
	}

	overrides := c.store.Overrides()
	sw := palette.GenerateSwatch(f, step, mode, overrides)
	fg, fgL := sw.Foreground(v)

	res := Correct(Request{
		Background:          sw.Background,
		Foreground:          fg,
		ForegroundLightness: fgL,
		Hue:                 f.H,
		Saturation:          f.S,
	})
	if !res.Changed {
		return res, nil
	}

	key := palette.OverrideKey{Family: f.ID, Step: step, Variant: v}
	prev, ok := overrides[key]
	if !ok {
		prev = palette.Override{
			Light: palette.ForegroundLightness(step, palette.ModeLight, v),
			Dark:  palette.ForegroundLightness(step, palette.ModeDark, v),
		}
	}
	if err := c.store.RecordOverride(key, prev.With(mode, res.Lightness, c.now())); err != nil {
		return res, fmt.Errorf("record override %s: %w", key, err)
	}
	return res, nil
}

// FixResult pairs a corrected foreground with its outcome.
type FixResult struct {
	Key    palette.OverrideKey
	Result Result
}

// FixAll corrects every failing foreground of every family in one mode.
func (c *Corrector) FixAll(mode palette.Mode) ([]FixResult, error) {
	var fixed []FixResult
	for _, f := range c.store.Families() {
		for _, step := range palette.Steps {
			if step == palette.StepOriginal {
				continue
			}
			for _, v := range palette.Variants {
				res, err := c.Fix(f.ID, step, v, mode)
				if err != nil {
					return fixed, err
				}
				if res.Changed {
					fixed = append(fixed, FixResult{
						Key:    palette.OverrideKey{Family: f.ID, Step: step, Variant: v},
						Result: res,
					})
				}
			}
		}
	}
	return fixed, nil
}
