// Package roll holds the scrolling piano-roll model: one Note per piano key,
// a Rect per press interval and the Keyboard that routes incoming notes and
// drives the per-frame tick.
package roll

import (
	"errors"
	"image/color"

	"pianoroll/theme"
)

// Piano range by MIDI convention: A0 (21) to C8 (108)
const (
	LowestNote  = 21
	HighestNote = 108
	NumKeys     = HighestNote - LowestNote + 1
)

// Horizontal layout: keys share a fixed logical width of 1920px
const (
	LogicalWidth = 1920
	KeyWidth     = LogicalWidth / NumKeys
	LeftMargin   = 50
)

// NoVelocity marks a press without velocity information (drawn black)
const NoVelocity = theme.NoVelocity

var (
	ErrUnknownNote    = errors.New("unknown note")
	ErrNotPressed     = errors.New("note is not pressed")
	ErrAlreadyPressed = errors.New("note is already pressed")
)

// Surface is the raster the rects are drawn on
type Surface interface {
	FillRect(x, y, w, h float64, c color.RGBA)
}

// ColorFunc maps a velocity (0-127 or NoVelocity) to a fill color
type ColorFunc func(velocity int) color.RGBA

// InRange reports whether n is one of the 88 piano keys
func InRange(n int) bool {
	return n >= LowestNote && n <= HighestNote
}
