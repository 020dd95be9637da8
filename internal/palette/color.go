package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL is a base color in CSS units: hue in degrees, saturation and
// lightness in percent.
type HSL struct {
	H float64 `json:"h" toml:"h"`
	S float64 `json:"s" toml:"s"`
	L float64 `json:"l" toml:"l"`
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%g %g%% %g%%)", c.H, c.S, c.L)
}

// Clamp bounds each channel to its valid range. Callers accepting user input
// must clamp before handing values to the generator.
func Clamp(c HSL) HSL {
	return HSL{
		H: math.Max(0, math.Min(360, c.H)),
		S: math.Max(0, math.Min(100, c.S)),
		L: math.Max(0, math.Min(100, c.L)),
	}
}

// HSLToHex converts hue/saturation/lightness to a #rrggbb string.
func HSLToHex(h, s, l float64) string {
	// Pure black skips the chroma math to avoid rounding noise.
	if l == 0 {
		return "#000000"
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sn := s / 100
	ln := l / 100

	c := (1 - math.Abs(2*ln-1)) * sn
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := ln - c/2

	var r, g, b float64
	switch {
	case 0 <= h && h < 60:
		r, g, b = c, x, 0
	case 60 <= h && h < 120:
		r, g, b = x, c, 0
	case 120 <= h && h < 180:
		r, g, b = 0, c, x
	case 180 <= h && h < 240:
		r, g, b = 0, x, c
	case 240 <= h && h < 300:
		r, g, b = x, 0, c
	case 300 <= h && h < 360:
		r, g, b = c, 0, x
	}

	return fmt.Sprintf("#%02x%02x%02x", channel(r+m), channel(g+m), channel(b+m))
}

func channel(v float64) uint8 {
	n := math.Floor(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// ParseHex reads a #rrggbb (or #rgb) color.
func ParseHex(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c, nil
}

// HexToHSL converts a hex color back to CSS-unit HSL.
func HexToHSL(hex string) (HSL, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return HSL{}, err
	}
	h, s, l := c.Hsl()
	return HSL{H: h, S: s * 100, L: l * 100}, nil
}
