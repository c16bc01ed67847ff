package theme

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme is a read-only catppuccin flavour.
type Theme struct {
	flavour catppuccin.Flavor
}

var (
	Mocha     = Theme{flavour: catppuccin.Mocha}
	Macchiato = Theme{flavour: catppuccin.Macchiato}
	Frappe    = Theme{flavour: catppuccin.Frappe}
	Latte     = Theme{flavour: catppuccin.Latte}
)

// IsZero reports whether t was never set to a flavour.
func (t Theme) IsZero() bool {
	return t.flavour == nil
}

// ByName returns the named flavour, Mocha when unknown.
func ByName(name string) Theme {
	switch strings.ToLower(name) {
	case "latte":
		return Latte
	case "frappe":
		return Frappe
	case "macchiato":
		return Macchiato
	}
	return Mocha
}

func (t Theme) Pink() lipgloss.Color      { return lipgloss.Color(t.flavour.Pink().Hex) }
func (t Theme) Mauve() lipgloss.Color     { return lipgloss.Color(t.flavour.Mauve().Hex) }
func (t Theme) Red() lipgloss.Color       { return lipgloss.Color(t.flavour.Red().Hex) }
func (t Theme) Maroon() lipgloss.Color    { return lipgloss.Color(t.flavour.Maroon().Hex) }
func (t Theme) Peach() lipgloss.Color     { return lipgloss.Color(t.flavour.Peach().Hex) }
func (t Theme) Yellow() lipgloss.Color    { return lipgloss.Color(t.flavour.Yellow().Hex) }
func (t Theme) Green() lipgloss.Color     { return lipgloss.Color(t.flavour.Green().Hex) }
func (t Theme) Teal() lipgloss.Color      { return lipgloss.Color(t.flavour.Teal().Hex) }
func (t Theme) Sky() lipgloss.Color       { return lipgloss.Color(t.flavour.Sky().Hex) }
func (t Theme) Sapphire() lipgloss.Color  { return lipgloss.Color(t.flavour.Sapphire().Hex) }
func (t Theme) Blue() lipgloss.Color      { return lipgloss.Color(t.flavour.Blue().Hex) }
func (t Theme) Lavender() lipgloss.Color  { return lipgloss.Color(t.flavour.Lavender().Hex) }
func (t Theme) Text() lipgloss.Color      { return lipgloss.Color(t.flavour.Text().Hex) }
func (t Theme) Subtext1() lipgloss.Color  { return lipgloss.Color(t.flavour.Subtext1().Hex) }
func (t Theme) Overlay0() lipgloss.Color  { return lipgloss.Color(t.flavour.Overlay0().Hex) }
func (t Theme) Overlay1() lipgloss.Color  { return lipgloss.Color(t.flavour.Overlay1().Hex) }
func (t Theme) Surface1() lipgloss.Color  { return lipgloss.Color(t.flavour.Surface1().Hex) }
