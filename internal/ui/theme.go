package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
var (
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorYellow = lipgloss.Color("#f9e2af")
	colorTeal   = lipgloss.Color("#94e2d5")
	colorMuted  = lipgloss.Color("#5a6278")
	colorBright = lipgloss.Color("#cdd6f4")
)

// styles holds the lipgloss styles a presenter renders with. The plain
// set renders text unchanged.
type styles struct {
	done    lipgloss.Style
	failed  lipgloss.Style
	warn    lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
	speed   lipgloss.Style
	heading lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		done:    lipgloss.NewStyle().Foreground(colorGreen),
		failed:  lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(colorYellow),
		path:    lipgloss.NewStyle().Foreground(colorBright),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		speed:   lipgloss.NewStyle().Foreground(colorTeal),
		heading: lipgloss.NewStyle().Bold(true).Foreground(colorBright),
	}
}
