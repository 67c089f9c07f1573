package theme

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the terminal text around the roll (status and help lines)
// and decides how velocities turn into rectangle colors.
type Theme struct {
	Palette *Palette // nil means the built-in hot gradient
	Symbols Symbols
}

type Symbols struct {
	KeyDown rune // ■ pressed key in the debug strip
	KeyUp   rune // · released key
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			KeyDown: '■',
			KeyUp:   '·',
		},
	}
}

// Color roles mapped to gradient positions (0-1)
const (
	RoleMuted   = 0.25 // dark red
	RoleFG      = 0.55 // orange
	RoleAccent  = 0.75 // yellow
	RoleWarning = 0.40 // red
)

// Lookup returns the gradient color for norm in [0,1]
func (t *Theme) Lookup(norm float64) color.RGBA {
	if t.Palette != nil {
		return t.Palette.Lookup(norm).RGBA()
	}
	return Hot(norm)
}

// VelocityColor is the note color function handed to the keyboard
func (t *Theme) VelocityColor(velocity int) color.RGBA {
	if t.Palette != nil {
		return t.Palette.VelocityColor(velocity)
	}
	return VelocityColor(velocity)
}

func (t *Theme) FG() lipgloss.Color {
	return rgbaToLipgloss(t.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbaToLipgloss(t.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbaToLipgloss(t.Lookup(RoleMuted))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbaToLipgloss(t.Lookup(RoleWarning))
}

// Hex formats a color as #rrggbb
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rgbaToLipgloss(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}
