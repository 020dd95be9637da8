package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab item
type Tab struct {
	Label   string
	Failing int  // Failing pairs; shown as a badge when > 0
	Edited  bool // Base color differs from the configured one
}

// RenderTabBar renders a horizontal tab bar with the given tabs
// activeIndex specifies which tab is currently active (0-indexed)
func RenderTabBar(tabs []Tab, activeIndex int, activeStyle, inactiveStyle, badgeStyle lipgloss.Style) string {
	var rendered []string
	for i, t := range tabs {
		style := inactiveStyle
		if i == activeIndex {
			style = activeStyle
		}

		label := t.Label
		if t.Edited {
			label += "*"
		}
		if t.Failing > 0 {
			label += " " + badgeStyle.Render(fmt.Sprintf("(%d)", t.Failing))
		}

		rendered = append(rendered, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
