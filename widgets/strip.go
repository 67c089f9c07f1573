package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pianoroll/theme"
)

// RenderKeyStrip draws one cell per key from the keyboard's X/O string,
// with a gap before every C so octaves are easy to count
func RenderKeyStrip(keys string, th *theme.Theme) string {
	down := lipgloss.NewStyle().Foreground(th.Accent())
	up := lipgloss.NewStyle().Foreground(th.Muted())

	var out strings.Builder
	for i, k := range keys {
		// index 3 is C1 when the strip starts at A0
		if i > 0 && (i-3)%12 == 0 {
			out.WriteString(" ")
		}
		if k == 'X' {
			out.WriteString(down.Render(string(th.Symbols.KeyDown)))
		} else {
			out.WriteString(up.Render(string(th.Symbols.KeyUp)))
		}
	}
	return out.String()
}
