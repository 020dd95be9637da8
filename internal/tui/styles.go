package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/tui/colors"
)

// === Layout Styles ===
var (
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1)

	ActivePaneStyle = PaneStyle.
			BorderForeground(colors.Highlight)

	LogoStyle = lipgloss.NewStyle().
			Foreground(colors.Accent).
			Bold(true)

	// === Text Styles ===

	TitleStyle = lipgloss.NewStyle().
			Foreground(colors.Accent).
			Bold(true).
			MarginBottom(1)

	TabStyle = lipgloss.NewStyle().
			Foreground(colors.Muted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(colors.Highlight).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colors.Highlight).
			Padding(0, 1).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colors.Accent).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colors.Text).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colors.Muted)

	CursorStyle = lipgloss.NewStyle().
			Foreground(colors.Highlight).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(colors.GradeAAA)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colors.GradeFail)

	OverrideStyle = lipgloss.NewStyle().
			Foreground(colors.Overridden)
)

// GradeStyle colors a WCAG level badge.
func GradeStyle(level a11y.Level) lipgloss.Style {
	switch level {
	case a11y.LevelAAA:
		return lipgloss.NewStyle().Foreground(colors.GradeAAA).Bold(true)
	case a11y.LevelAA:
		return lipgloss.NewStyle().Foreground(colors.GradeAA).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colors.GradeFail).Bold(true)
}
