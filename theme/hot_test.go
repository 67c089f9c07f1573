package theme

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVelocityColorMissingIsBlack(t *testing.T) {
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, VelocityColor(NoVelocity))
}

func TestVelocityColorEndsAreDistinct(t *testing.T) {
	low := VelocityColor(0)
	high := VelocityColor(127)

	assert := assert.New(t)
	assert.NotEqual(low, high)
	assert.NotEqual(Black, low)
	assert.NotEqual(Black, high)
	assert.Equal(color.RGBA{255, 255, 255, 255}, high)
}

func TestVelocityColorIsMonotonic(t *testing.T) {
	prev := VelocityColor(0)
	for v := 1; v <= 127; v++ {
		c := VelocityColor(v)
		if c.R < prev.R || c.G < prev.G || c.B < prev.B {
			t.Fatalf("velocity %d: %v is darker than %v", v, c, prev)
		}
		prev = c
	}
}

func TestVelocityColorFarApartDiffer(t *testing.T) {
	// red saturates first, then green, then blue; far apart values never collide
	for _, pair := range [][2]int{{0, 40}, {20, 70}, {50, 100}, {90, 127}} {
		assert.NotEqual(t, VelocityColor(pair[0]), VelocityColor(pair[1]), "velocities %v", pair)
	}
}

func TestHotStops(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(color.RGBA{255, 0, 0, 255}, Hot(0.365079))
	assert.Equal(color.RGBA{255, 255, 0, 255}, Hot(0.746032))
	assert.Equal(Hot(0), Hot(-1))
	assert.Equal(Hot(1), Hot(2))
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ffffff", color.RGBA{255, 255, 255, 255}, true},
		{"#102030", color.RGBA{16, 32, 48, 255}, true},
		{"255,255,255", color.RGBA{255, 255, 255, 255}, true},
		{"(0, 128, 7)", color.RGBA{0, 128, 7, 255}, true},
		{"1,2", color.RGBA{}, false},
		{"1,2,300", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseColor(c.in)
			if !c.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestReadGPL(t *testing.T) {
	src := `GIMP Palette
Name: Mono
Columns: 2
# comment
  0   0   0	Black
255 255 255	White
`
	p, err := ReadGPL(strings.NewReader(src))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Mono", p.Name)
	assert.Len(p.Colors, 2)
	assert.Equal(RGB{127, 127, 127}, p.Lookup(0.5))
	assert.Equal(Black, p.VelocityColor(NoVelocity))
	assert.Equal(color.RGBA{255, 255, 255, 255}, p.VelocityColor(127))
}

func TestReadGPLEmpty(t *testing.T) {
	_, err := ReadGPL(strings.NewReader("GIMP Palette\nName: Empty\n"))
	assert.Error(t, err)
}

func TestReadGPLSingleColor(t *testing.T) {
	p, err := ReadGPL(strings.NewReader("GIMP Palette\nName: One\n255 0 0 Red\n"))
	require.NoError(t, err)

	red := color.RGBA{255, 0, 0, 255}
	for _, v := range []int{0, 1, 64, 126, 127} {
		assert.Equal(t, red, p.VelocityColor(v))
	}
	assert.Equal(t, "#ff0000", Hex(New(p).Lookup(RoleAccent)))
}

func TestThemeFallsBackToHot(t *testing.T) {
	th := New(nil)
	assert.Equal(t, VelocityColor(64), th.VelocityColor(64))
	assert.Equal(t, "#ff0000", Hex(th.Lookup(0.365079)))
}
