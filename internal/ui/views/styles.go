package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	CardBody    lipgloss.Style
	CardTag     lipgloss.Style
	Divider     lipgloss.Style
	Nav         lipgloss.Style
	NavDisabled lipgloss.Style
	Pip         lipgloss.Style
	PipActive   lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Popup       lipgloss.Style
	Desaturated lipgloss.Style
}

// NewStyles creates a new Styles instance; dividerColor is a hex or ANSI colour
func NewStyles(dividerColor string) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		CardBody:    lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
		CardTag:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color(dividerColor)),
		Nav:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		NavDisabled: lipgloss.NewStyle().Faint(true),
		Pip:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PipActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:        lipgloss.NewStyle().Faint(true),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		Desaturated: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
