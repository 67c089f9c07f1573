package render

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	r, g, b, a := c.Image().At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(100, 50, white)
	assert.Equal(t, 100, c.Width())
	assert.Equal(t, 50, c.Height())
	assert.Equal(t, white, rgbaAt(c, 0, 0))

	c.FillRect(10, 0, 20, 10, red)
	assert.Equal(t, red, rgbaAt(c, 15, 5))
	assert.Equal(t, white, rgbaAt(c, 15, 20))
	assert.Equal(t, white, rgbaAt(c, 40, 5))

	c.Clear()
	assert.Equal(t, white, rgbaAt(c, 15, 5))
}

func TestFillRectEmptyIsNoop(t *testing.T) {
	c := NewCanvas(10, 10, white)
	c.FillRect(0, 0, 5, 0, red)
	c.FillRect(0, 0, 0, 5, red)
	assert.Equal(t, white, rgbaAt(c, 0, 0))
}

func TestEncodePNG(t *testing.T) {
	c := NewCanvas(40, 30, white)
	c.FillRect(0, 0, 40, 15, red)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
	r, _, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)
}

func TestSavePNG(t *testing.T) {
	c := NewCanvas(8, 8, white)
	path := filepath.Join(t.TempDir(), "frames", FrameName(7))
	require.NoError(t, c.SavePNG(path))

	assert.Equal(t, "fr00007.png", filepath.Base(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
