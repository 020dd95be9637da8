package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/tui/colors"
)

// RampStats is overlaid on the lightness graph.
type RampStats struct {
	Base    palette.HSL
	Failing int
	Mode    palette.Mode
}

// renderLightnessGraph draws one bar per swatch, as tall as its background
// lightness and painted in the swatch's own color.
func renderLightnessGraph(swatches []palette.Swatch, width, height int, stats *RampStats) string {
	if width < 1 || height < 1 {
		return ""
	}

	gridStyle := lipgloss.NewStyle().Foreground(colors.Border)

	rows := make([][]string, height)
	for i := range rows {
		rows[i] = make([]string, width)
		for j := range rows[i] {
			switch {
			case i == height-1:
				rows[i][j] = gridStyle.Render("─")
			case i%2 == 0:
				rows[i][j] = gridStyle.Render("╌")
			default:
				rows[i][j] = " "
			}
		}
	}

	blocks := []string{" ", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	if len(swatches) > 0 {
		colsPerPoint := float64(width) / float64(len(swatches))
		for i, sw := range swatches {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(sw.Background))
			rendered := make([]string, len(blocks))
			for k, b := range blocks {
				rendered[k] = style.Render(b)
			}

			pct := sw.BackgroundLightness / 100
			if pct > 1 {
				pct = 1
			}
			totalSubBlocks := pct * float64(height) * 8

			startCol := int(float64(i) * colsPerPoint)
			endCol := int(float64(i+1) * colsPerPoint)
			if endCol > width {
				endCol = width
			}
			for col := startCol; col < endCol; col++ {
				for y := 0; y < height; y++ {
					rowValue := totalSubBlocks - float64(y*8)
					var idx int
					switch {
					case rowValue <= 0:
						idx = 0
					case rowValue >= 8:
						idx = 7
					default:
						idx = int(rowValue)
					}
					if idx > 0 {
						rows[height-1-y][col] = rendered[idx]
					}
				}
			}
		}
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(strings.Join(row, ""))
		if i < height-1 {
			b.WriteRune('\n')
		}
	}
	graph := b.String()

	if stats != nil {
		graph = overlayStatsBox(graph, stats, width, height)
	}
	return graph
}

// overlayStatsBox renders stats on top of the graph in the top-right area
func overlayStatsBox(graph string, stats *RampStats, width, height int) string {
	valueStyle := lipgloss.NewStyle().Foreground(colors.Highlight).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	failing := valueStyle.Render("all pass")
	if stats.Failing > 0 {
		failing = lipgloss.NewStyle().Foreground(colors.GradeFail).Bold(true).Render(fmt.Sprintf("%d failing", stats.Failing))
	}

	lines := []string{
		labelStyle.Render("base ") + valueStyle.Render(stats.Base.String()),
		labelStyle.Render(string(stats.Mode)+" ") + failing,
	}
	box := lipgloss.JoinVertical(lipgloss.Right, lines...)
	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)
	if boxWidth >= width || boxHeight >= height {
		return graph
	}

	graphLines := strings.Split(graph, "\n")
	boxLines := strings.Split(box, "\n")
	for i := 0; i < len(boxLines) && i < len(graphLines); i++ {
		w := lipgloss.Width(boxLines[i])
		pad := width - w
		if pad < 0 {
			continue
		}
		graphLines[i] = strings.Repeat(" ", pad) + boxLines[i]
	}
	return strings.Join(graphLines, "\n")
}
