package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// Canvas is an in-memory raster the roll draws onto every frame
type Canvas struct {
	dc *gg.Context
	bg color.RGBA
}

func NewCanvas(width, height int, bg color.RGBA) *Canvas {
	c := &Canvas{
		dc: gg.NewContext(width, height),
		bg: bg,
	}
	c.Clear()
	return c
}

// Clear paints the whole canvas with the background color
func (c *Canvas) Clear() {
	c.dc.SetColor(c.bg)
	c.dc.DrawRectangle(0, 0, float64(c.dc.Width()), float64(c.dc.Height()))
	c.dc.Fill()
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

// Image returns the live backing image; it changes on the next frame
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the current frame to path, creating parent directories
func (c *Canvas) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving frame: %w", err)
	}
	return nil
}

// FrameName is the file name of frame i in a replay sequence
func FrameName(i int) string {
	return fmt.Sprintf("fr%05d.png", i)
}
