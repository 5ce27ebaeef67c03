package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// popup centers content in a bordered card and composites it over the
// base view, preserving the base around the card.
func popup(base, content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(1, 2).
		Render(content)
	layer := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)

	baseLines := canvasLines(base, width, height)
	layerLines := canvasLines(layer, width, height)
	out := make([]string, height)
	for i := 0; i < height; i++ {
		out[i] = compositeLine(baseLines[i], layerLines[i], width)
	}
	return strings.Join(out, "\n")
}

// compositeLine splices the non-blank segment of the layer line into
// the base line at the same columns.
func compositeLine(base, layer string, width int) string {
	start, end, ok := inkBounds(layer, width)
	if !ok {
		return base
	}
	left := ansi.Truncate(base, start, "")
	segment := ansi.Truncate(dropColumns(layer, start), end-start, "")
	right := dropColumns(base, end)
	return padLine(left+segment+right, width)
}

// inkBounds finds the column range the layer line actually paints.
func inkBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	for start < len(plain) && plain[start] == ' ' {
		start++
	}
	end = len(trimmed)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func canvasLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padLine(lines[i], width)
	}
	return lines
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func padLine(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
