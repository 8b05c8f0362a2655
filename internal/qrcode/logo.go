package qrcode

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/draw"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/logo.svg
var logoSVG []byte

// addLogo draws the logo at the center of the image. The logo grows by two
// modules at a time so it stays centered and never covers more than about
// 10% of the area, which is below the quartile error-correction threshold.
func addLogo(img *image.RGBA, transparent bool) error {
	b := img.Bounds()
	imageSize := min(b.Dx(), b.Dy())
	element := elementSize(img)

	logoSize := element
	// 5/16 squared is roughly 10%.
	for logoSize+2*element <= 5*imageSize/16 {
		logoSize += 2 * element
	}

	logo, err := rasterizeLogo(logoSize, transparent)
	if err != nil {
		return err
	}
	offset := (imageSize - logoSize) / 2
	r := image.Rect(offset, offset, offset+logoSize, offset+logoSize).Add(b.Min)
	draw.Draw(img, r, logo, image.Point{}, draw.Src)
	return nil
}

// rasterizeLogo renders the embedded SVG logo into a size x size square. The
// opaque variant sits on a white background.
func rasterizeLogo(size int, transparent bool) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(logoSVG))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if !transparent {
		draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)
	}
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// elementSize returns the side of one module by walking the diagonal from
// the top-left corner into the finder pattern and measuring the first dark run.
func elementSize(img *image.RGBA) int {
	b := img.Bounds()
	size := min(b.Dx(), b.Dy())

	start := size
	for i := 0; i < size; i++ {
		if img.RGBAAt(b.Min.X+i, b.Min.Y+i) == black {
			start = i
			break
		}
	}

	element := 1
	for i := 0; i < size-start; i++ {
		if img.RGBAAt(b.Min.X+start+i, b.Min.Y+start+i) != black {
			element = i
			break
		}
	}
	return max(element, 1)
}
