package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxVelocity is the top of the MIDI velocity range
const MaxVelocity = 127

// NoVelocity marks a note without velocity information
const NoVelocity = -1

var Black = color.RGBA{A: 0xff}

// hotStops are the break points of matplotlib's "hot" map. Between two
// stops each channel is linear, so blending in RGB space reproduces it.
var hotStops = []struct {
	pos float64
	col colorful.Color
}{
	{0.0, colorful.Color{R: 0.0416, G: 0, B: 0}},
	{0.365079, colorful.Color{R: 1, G: 0, B: 0}},
	{0.746032, colorful.Color{R: 1, G: 1, B: 0}},
	{1.0, colorful.Color{R: 1, G: 1, B: 1}},
}

// Hot returns the black-red-yellow-white gradient color for norm in [0,1]
func Hot(norm float64) color.RGBA {
	if norm <= hotStops[0].pos {
		return toRGBA(hotStops[0].col)
	}
	for i := 0; i < len(hotStops)-1; i++ {
		c1, c2 := hotStops[i], hotStops[i+1]
		if norm <= c2.pos {
			t := (norm - c1.pos) / (c2.pos - c1.pos)
			return toRGBA(c1.col.BlendRgb(c2.col, t).Clamped())
		}
	}
	return toRGBA(hotStops[len(hotStops)-1].col)
}

// VelocityColor is the default note color: hot gradient over 0-127,
// black when the velocity is missing.
func VelocityColor(velocity int) color.RGBA {
	if velocity < 0 {
		return Black
	}
	if velocity > MaxVelocity {
		velocity = MaxVelocity
	}
	return Hot(float64(velocity) / MaxVelocity)
}

// ParseColor accepts "#rrggbb" or "r,g,b"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, err
		}
		return toRGBA(c), nil
	}

	parts := strings.Split(strings.Trim(s, "()"), ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or r,g,b", s)
	}
	var rgb RGB
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color component %q in %q", p, s)
		}
		rgb[i] = uint8(v)
	}
	return rgb.RGBA(), nil
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
