package clipboard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tonekit/tonekit/internal/palette"
)

var (
	hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	hslPattern = regexp.MustCompile(`^(?:hsla?\()?\s*(-?[\d.]+)(?:deg)?[\s,]+([\d.]+)%?[\s,]+([\d.]+)%?\s*(?:[,/]\s*[\d.]+%?\s*)?\)?;?$`)
)

// ExtractColor parses a color pasted from elsewhere: "#356899", "abc",
// "hsl(216 58% 48%)", "hsl(216, 58%, 48%)" or a bare "216 58 48".
func ExtractColor(text string) (palette.HSL, bool) {
	text = strings.TrimSpace(text)
	if len(text) > 64 || strings.ContainsAny(text, "\n\r") {
		return palette.HSL{}, false
	}

	if hexPattern.MatchString(text) {
		hex := strings.TrimPrefix(text, "#")
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		hsl, err := palette.HexToHSL("#" + strings.ToLower(hex))
		if err != nil {
			return palette.HSL{}, false
		}
		return hsl, true
	}

	m := hslPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return palette.HSL{}, false
	}
	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return palette.HSL{}, false
		}
		vals[i] = v
	}
	return palette.Clamp(palette.HSL{H: vals[0], S: vals[1], L: vals[2]}), true
}

// ReadColor reads the clipboard and extracts a color from it.
func ReadColor() (palette.HSL, bool) {
	text, err := clipboardReadAll()
	if err != nil {
		return palette.HSL{}, false
	}
	return ExtractColor(text)
}
