package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tui/components"
)

const logo = `┌┬┐┌─┐┌┐┌┌─┐┬┌─┬┌┬┐
 │ │ ││││├┤ ├┴┐│ │ 
 ┴ └─┘┘└┘└─┘┴ ┴┴ ┴ `

// Minimum width for the lightness graph to render beside the swatch list.
const graphMinWidth = 120

func (m RootModel) View() string {
	if m.state == ConfirmState {
		modal := components.NewConfirmationModal(
			"Reset contrast fixes?",
			"Every recorded on/on-alt override will be removed.",
			fmt.Sprintf("%d override(s) in both modes", len(m.store.Overrides())),
			m.keys.Confirm,
			m.help,
		)
		return modal.Centered(m.width, m.height)
	}

	f := m.currentFamily()
	header := m.renderHeader(f)
	tabs := m.renderTabs()
	footer := m.renderFooter()

	// Rows left for the swatch pane once chrome is accounted for
	visible := len(palette.Steps)
	if m.height > 0 {
		used := lipgloss.Height(header) + lipgloss.Height(tabs) + lipgloss.Height(footer) + 2
		if m.state == EditHSLState {
			used += 5
		}
		visible = m.height - used
		if visible < 1 {
			visible = 1
		}
	}

	body := m.renderSwatches(f, visible)
	if m.width >= graphMinWidth {
		graphWidth := m.width - lipgloss.Width(body) - 2
		if graphWidth > 10 {
			fp, _ := m.tree.Family(f.ID)
			graph := renderLightnessGraph(fp.Modes[m.mode], graphWidth, lipgloss.Height(body)-2, &RampStats{
				Base:    f.HSL,
				Failing: m.failing(f.ID, m.mode),
				Mode:    m.mode,
			})
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", PaneStyle.Render(graph))
		}
	}

	parts := []string{header, tabs, body}
	if m.state == EditHSLState {
		parts = append(parts, m.renderHSLEditor(f))
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m RootModel) renderHeader(f palette.Family) string {
	fp, _ := m.tree.Family(f.ID)
	start, end := "#888888", "#444444"
	if sw, ok := fp.Swatch(palette.StepPlusTwo, palette.ModeLight); ok {
		start = sw.Background
	}
	if sw, ok := fp.Swatch(palette.StepMinusTwo, palette.ModeLight); ok {
		end = sw.Background
	}

	mode := ValueStyle.Render(string(m.mode))
	variant := ValueStyle.Render(string(m.variant))
	info := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Mode")+mode,
		LabelStyle.Render("Variant")+variant,
		LabelStyle.Render("Base")+ValueStyle.Render(f.HSL.String()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, ApplyGradient(logo, start, end), "   ", info)
}

func (m RootModel) renderTabs() string {
	tabs := make([]components.Tab, len(m.families))
	for i, f := range m.families {
		tabs[i] = components.Tab{
			Label:   f.Name,
			Failing: m.failing(f.ID, m.mode),
			Edited:  m.store.Edited(f.ID),
		}
	}
	return components.RenderTabBar(tabs, m.familyIdx, ActiveTabStyle, TabStyle, ErrorStyle)
}

func (m RootModel) renderSwatches(f palette.Family, visible int) string {
	fp, ok := m.tree.Family(f.ID)
	if !ok {
		return PaneStyle.Render(MutedStyle.Render("no families configured"))
	}
	swatches := fp.Modes[m.mode]

	// Keep the cursor in view
	start := 0
	if visible < len(swatches) {
		start = m.stepIdx - visible/2
		if start < 0 {
			start = 0
		}
		if start+visible > len(swatches) {
			start = len(swatches) - visible
		}
	}
	end := len(swatches)
	if start+visible < end {
		end = start + visible
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		sw := swatches[i]
		rows = append(rows, components.RenderSwatchRow(components.SwatchRow{
			Swatch:    sw,
			Indicator: m.indicators[indicatorKey{f.ID, sw.Step, m.mode}],
			LargeText: m.largeText,
			Selected:  i == m.stepIdx,
			Variant:   m.variant,
		}, GradeStyle, CursorStyle, OverrideStyle))
	}

	style := PaneStyle
	if m.state == BrowseState {
		style = ActivePaneStyle
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (m RootModel) renderHSLEditor(f palette.Family) string {
	labels := []string{"Hue", "Saturation", "Lightness"}
	fields := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		label := LabelStyle.Render(labels[i])
		if i == m.focusedInput {
			label = CursorStyle.Width(12).Render(labels[i])
		}
		fields[i] = label + in.View()
	}
	title := TitleStyle.UnsetMarginBottom().Render("Edit " + f.Name)
	return ActivePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, fields...)))
}

func (m RootModel) renderFooter() string {
	var status string
	switch {
	case m.errorMsg != "":
		status = ErrorStyle.Render(m.errorMsg)
	case m.status != "":
		status = StatusStyle.Render(m.status)
	default:
		status = MutedStyle.Render(" ")
	}

	var helpView string
	if m.state == EditHSLState {
		helpView = m.help.View(m.keys.HSL)
	} else {
		helpView = m.help.View(m.keys.Editor)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, helpView)
}
