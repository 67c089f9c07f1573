package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pianoroll/theme"
)

// RenderKeyHelp lays the sections out as a titled list with the key
// column as wide as the longest key
func RenderKeyHelp(sections []KeySection, th *theme.Theme) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Accent())

	width := 0
	for _, sec := range sections {
		for _, k := range sec.Keys {
			width = max(width, lipgloss.Width(k.Key))
		}
	}
	keyStyle := lipgloss.NewStyle().Foreground(th.FG()).Width(width)

	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, titleStyle.Render(sec.Title))
		}
		for _, k := range sec.Keys {
			lines = append(lines, "  "+keyStyle.Render(k.Key)+"  "+k.Desc)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyLine squeezes bindings onto one line: "q:quit  -:slower"
func RenderKeyLine(sections []KeySection) string {
	var parts []string
	for _, sec := range sections {
		for _, k := range sec.Keys {
			parts = append(parts, k.Key+":"+k.Desc)
		}
	}
	return strings.Join(parts, "  ")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
