package components

import (
	"github.com/tonekit/tonekit/internal/tui/colors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationModal renders a styled confirmation dialog box
type ConfirmationModal struct {
	Title       string
	Message     string
	Detail      string      // Optional additional detail line
	Keys        help.KeyMap // Key bindings to show in help
	Help        help.Model  // Help model for rendering keys
	BorderColor lipgloss.TerminalColor
	Width       int
}

// NewConfirmationModal creates a modal with default styling
func NewConfirmationModal(title, message, detail string, keys help.KeyMap, helpModel help.Model) ConfirmationModal {
	return ConfirmationModal{
		Title:       title,
		Message:     message,
		Detail:      detail,
		Keys:        keys,
		Help:        helpModel,
		BorderColor: colors.GradeFail,
		Width:       56,
	}
}

// View renders the modal body without the surrounding box
func (m ConfirmationModal) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.BorderColor).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	parts := []string{titleStyle.Render(m.Title), "", m.Message}
	if m.Detail != "" {
		parts = append(parts, "", detailStyle.Render(m.Detail))
	}
	parts = append(parts, "", lipgloss.NewStyle().Foreground(colors.Muted).Render(m.Help.View(m.Keys)))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

// Centered returns the modal centered in the given dimensions
func (m ConfirmationModal) Centered(width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(m.BorderColor).
		Padding(1, 3).
		Width(m.Width).
		Align(lipgloss.Center).
		Render(m.View())

	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
