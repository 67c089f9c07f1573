package widgets

import (
	"image"
	"image/color"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/image/draw"

	"pianoroll/theme"
)

const halfBlock = "▀"

// RenderImage scales img to cols x rows terminal cells using the
// terminal's color profile. Each cell shows two pixels: the upper half
// block takes the top pixel as foreground, the bottom pixel as background.
func RenderImage(img image.Image, cols, rows int) string {
	return RenderImageProfile(img, cols, rows, termenv.ColorProfile())
}

func RenderImageProfile(img image.Image, cols, rows int, p termenv.Profile) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var out strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		x := 0
		for x < cols {
			top, bottom := dst.RGBAAt(x, 2*y), dst.RGBAAt(x, 2*y+1)
			// identical neighbours share one escape sequence
			run := 1
			for x+run < cols && dst.RGBAAt(x+run, 2*y) == top && dst.RGBAAt(x+run, 2*y+1) == bottom {
				run++
			}
			out.WriteString(cell(p, top, bottom, run))
			x += run
		}
	}
	return out.String()
}

func cell(p termenv.Profile, top, bottom color.RGBA, n int) string {
	return p.String(strings.Repeat(halfBlock, n)).
		Foreground(p.Color(theme.Hex(top))).
		Background(p.Color(theme.Hex(bottom))).
		String()
}
