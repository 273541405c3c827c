// Package render draws table view snapshots as terminal text with lipgloss.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	colorInk    = lipgloss.Color("#0F172A")
	colorMuted  = lipgloss.Color("#64748B")
	colorBorder = lipgloss.Color("#CBD5E1")
	colorZebra  = lipgloss.Color("#F8FAFC")
	colorAccent = lipgloss.Color("#2563EB")
	colorSelect = lipgloss.Color("#DBEAFE")
	colorWarn   = lipgloss.Color("#B91C1C")
)

// Theme holds every style the renderer uses.
type Theme struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Zebra    lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Focus    lipgloss.Style
	Meta     lipgloss.Style
	Badge    lipgloss.Style
	Disabled lipgloss.Style
	Error    lipgloss.Style
	Border   lipgloss.Style
	Frame    lipgloss.Border
}

// Theme names accepted by ThemeByName.
const (
	ThemeDefault = "default"
	ThemePlain   = "plain"
)

// DefaultTheme is the colored theme.
func DefaultTheme() Theme {
	cell := lipgloss.NewStyle().Padding(0, 1).Foreground(colorInk)
	return Theme{
		Header:   cell.Bold(true),
		Cell:     cell,
		Zebra:    cell.Background(colorZebra),
		Selected: cell.Background(colorSelect),
		Cursor:   cell.Reverse(true),
		Focus:    cell.Bold(true).Foreground(colorAccent).Underline(true),
		Meta:     lipgloss.NewStyle().Foreground(colorMuted),
		Badge:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Disabled: lipgloss.NewStyle().Foreground(colorBorder),
		Error:    lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
		Border:   lipgloss.NewStyle().Foreground(colorBorder),
		Frame:    lipgloss.RoundedBorder(),
	}
}

// PlainTheme uses no colors or attributes, for pipes and tests.
func PlainTheme() Theme {
	cell := lipgloss.NewStyle().Padding(0, 1)
	plain := lipgloss.NewStyle()
	return Theme{
		Header:   cell,
		Cell:     cell,
		Zebra:    cell,
		Selected: cell,
		Cursor:   cell,
		Focus:    cell,
		Meta:     plain,
		Badge:    plain,
		Disabled: plain,
		Error:    plain,
		Border:   plain,
		Frame:    lipgloss.NormalBorder(),
	}
}

// ThemeByName resolves a configured theme name.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", ThemeDefault:
		return DefaultTheme(), nil
	case ThemePlain:
		return PlainTheme(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}
