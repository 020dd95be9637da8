package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// ApplyGradient colors each line of text with a step of a vertical blend
// between two hex colors. Blending happens in HCL so mid-tones keep their
// saturation.
func ApplyGradient(text string, startHex, endHex string) string {
	lines := strings.Split(text, "\n")
	height := len(lines)
	if height == 0 {
		return text
	}

	start, err := colorful.Hex(startHex)
	if err != nil {
		return text
	}
	end, err := colorful.Hex(endHex)
	if err != nil {
		return text
	}

	colored := make([]string, 0, height)
	for i, line := range lines {
		// Single-line text renders in the start color
		t := 0.0
		if height > 1 {
			t = float64(i) / float64(height-1)
		}
		c := start.BlendHcl(end, t).Clamped()
		colored = append(colored, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true).Render(line))
	}
	return strings.Join(colored, "\n")
}
