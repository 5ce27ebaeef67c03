package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

// Semantic aliases.
const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleHeader = lipgloss.NewStyle().
			Foreground(colorLavender).
			Bold(true)

	styleRow = lipgloss.NewStyle().
			Foreground(colorText)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorAccent)

	styleSubRow = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			PaddingLeft(4)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorOverlay1)

	styleFieldLabel = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleFieldError = lipgloss.NewStyle().
			Foreground(colorError)

	styleToastOK = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorSuccess).
			Padding(0, 1)

	styleToastFail = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorError).
			Padding(0, 1)

	styleSidebar = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(1, 2)

	styleSidebarActive = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorAccent).
				Padding(0, 1)
)
