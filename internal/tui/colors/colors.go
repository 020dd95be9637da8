package colors

import "github.com/charmbracelet/lipgloss"

// === Chrome ===
// Editor chrome stays neutral so the swatches carry the color.
var (
	Accent    = lipgloss.AdaptiveColor{Light: "#2b5aa1", Dark: "#8fb4ee"}
	Highlight = lipgloss.AdaptiveColor{Light: "#a13a8b", Dark: "#f19ad8"}
	Surface   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1d1f24"} // Background
	Border    = lipgloss.AdaptiveColor{Light: "#d0d4da", Dark: "#3b3f47"}
	Muted     = lipgloss.AdaptiveColor{
		Light: "#5a5f66",
		Dark:  "#9aa1ab",
	} // Secondary text
	Text = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#eef0f3"}
)

// === Contrast Grades ===
var (
	GradeAAA = lipgloss.AdaptiveColor{
		Light: "#1b7a3a",
		Dark:  "#5fd68a",
	}
	GradeAA = lipgloss.AdaptiveColor{
		Light: "#8a6d00",
		Dark:  "#f2c94c",
	}
	GradeFail = lipgloss.AdaptiveColor{
		Light: "#c62828",
		Dark:  "#ff6b6b",
	}
	Overridden = lipgloss.AdaptiveColor{
		Light: "#6a3fc1",
		Dark:  "#b69cff",
	} // Foreground pinned by a fix
)
