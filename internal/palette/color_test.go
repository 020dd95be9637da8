package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSLToHex(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    string
	}{
		{name: "primary base light", h: 216, s: 58, l: 40, want: "#2b5aa1"},
		{name: "pure red", h: 0, s: 100, l: 50, want: "#ff0000"},
		{name: "pure green", h: 120, s: 100, l: 50, want: "#00ff00"},
		{name: "pure blue", h: 240, s: 100, l: 50, want: "#0000ff"},
		{name: "gray", h: 0, s: 0, l: 50, want: "#808080"},
		{name: "hue 360 wraps to red", h: 360, s: 100, l: 50, want: "#ff0000"},
		{name: "zero padded channels", h: 0, s: 100, l: 1, want: "#050000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HSLToHex(tt.h, tt.s, tt.l))
		})
	}
}

func TestHSLToHex_Extremes(t *testing.T) {
	for h := 0.0; h < 360; h += 7 {
		for s := 0.0; s <= 100; s += 10 {
			assert.Equal(t, "#000000", HSLToHex(h, s, 0), "h=%v s=%v", h, s)
			assert.Equal(t, "#ffffff", HSLToHex(h, s, 100), "h=%v s=%v", h, s)
		}
	}
}

func TestHSLToHex_RoundTrip(t *testing.T) {
	for h := 0.0; h < 360; h += 15 {
		for _, s := range []float64{0, 6, 25, 58, 99, 100} {
			for l := 0.0; l <= 100; l += 5 {
				hex := HSLToHex(h, s, l)

				back, err := HexToHSL(hex)
				require.NoError(t, err)

				again := HSLToHex(back.H, back.S, back.L)
				a, err := ParseHex(hex)
				require.NoError(t, err)
				b, err := ParseHex(again)
				require.NoError(t, err)

				ar, ag, ab := a.RGB255()
				br, bg, bb := b.RGB255()
				assert.InDelta(t, float64(ar), float64(br), 1, "red channel for %s", hex)
				assert.InDelta(t, float64(ag), float64(bg), 1, "green channel for %s", hex)
				assert.InDelta(t, float64(ab), float64(bb), 1, "blue channel for %s", hex)
			}
		}
	}
}

func TestParseHex_Invalid(t *testing.T) {
	_, err := ParseHex("not-a-color")
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	got := Clamp(HSL{H: -10, S: 140, L: 101})
	assert.Equal(t, HSL{H: 0, S: 100, L: 100}, got)

	inRange := HSL{H: 216, S: 58, L: 48}
	assert.Equal(t, inRange, Clamp(inRange))
}
