package tui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// previewSize is the preview width in cells; each cell covers two rows of pixels.
const previewSize = 41

// renderPreview draws the PNG behind url with half-block characters, tinted
// with the average color of its dark modules.
func renderPreview(url string, cells int) string {
	data, err := studio.DecodeDataURL(url)
	if err != nil {
		return ""
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return halfBlocks(src, cells)
}

func halfBlocks(src image.Image, cells int) string {
	dst := image.NewRGBA(image.Rect(0, 0, cells, cells+cells%2))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	var rSum, gSum, bSum, n int
	dark := func(x, y int) bool {
		c := dst.RGBAAt(x, y)
		// Transparent pixels count as light.
		if c.A < 128 {
			return false
		}
		lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
		if lum >= 192 {
			return false
		}
		rSum += int(c.R)
		gSum += int(c.G)
		bSum += int(c.B)
		n++
		return true
	}

	var b strings.Builder
	h := dst.Bounds().Dy()
	for y := 0; y < h; y += 2 {
		for x := 0; x < cells; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if y+2 < h {
			b.WriteByte('\n')
		}
	}

	tint := colorWhite
	if n > 0 {
		tint = hexColor(color.RGBA{uint8(rSum / n), uint8(gSum / n), uint8(bSum / n), 255})
	}
	return lipgloss.NewStyle().Foreground(tint).Background(lipgloss.Color("#ffffff")).Render(b.String())
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
