package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#7D56F4")
	green  = lipgloss.Color("#04B575")
	grey   = lipgloss.Color("#888888")

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1)

	// Heading printed above each folder's command output
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	// Selected item styling
	SelectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	// Help text styling
	HelpStyle = lipgloss.NewStyle().
			Foreground(grey).
			MarginTop(1)

	// Error styling
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	// Success styling
	SuccessStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	// Subtle text styling
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// Capability marker styling in inspect output
	MarkerStyle = lipgloss.NewStyle().
			Foreground(green)
)

// NewHuhTheme adapts the charm theme to the accent colours above.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeCharm()

	t.Focused.Title = t.Focused.Title.Foreground(accent)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("✓ ")
	t.Blurred.Title = t.Focused.Title
	t.Group.Title = t.Focused.Title

	return t
}
