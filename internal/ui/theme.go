package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorDim    = lipgloss.AdaptiveColor{Dark: "#7A6A1E", Light: "#ECC94B"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

var panelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder)

var mutedStyle = lipgloss.NewStyle().Foreground(colorGray)

var helpStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)
