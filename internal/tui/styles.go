package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSuccess   = lipgloss.Color("10")  // bright green
	colorErr       = lipgloss.Color("9")   // bright red
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	// Output lines by kind
	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleError = lipgloss.NewStyle().
			Foreground(colorErr)

	styleInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleJSON = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Trending ticker
	styleTickerSymbol = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleTickerUp = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleTickerDown = lipgloss.NewStyle().
			Foreground(colorErr)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	styleStatusBusy = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Padding(0, 1)
)
