// Package display renders decoded MIDI events as monitor lines
package display

import "github.com/charmbracelet/lipgloss"

// Palette styles the kind name and the field list of a monitor line
type Palette struct {
	Param   lipgloss.Style
	Value   lipgloss.Style
	colored bool
}

// Plain returns a palette that emits no escape sequences
func Plain() Palette {
	return Palette{}
}

// Terminal returns the default colored palette: kind names in green,
// fields in blue.
func Terminal() Palette {
	return Palette{
		Param:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		colored: true,
	}
}

// ForColor picks Terminal or Plain
func ForColor(color bool) Palette {
	if color {
		return Terminal()
	}
	return Plain()
}

func (p Palette) param(s string) string {
	if !p.colored {
		return s
	}
	return p.Param.Render(s)
}

func (p Palette) value(s string) string {
	if !p.colored || s == "" {
		return s
	}
	return p.Value.Render(s)
}
