package qrcode

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultImageSize = 1024
	DefaultMaxFrames = 255

	// quietZone is the border around the symbol, in modules.
	quietZone = 4
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}

	gradientInner = color.RGBA{100, 0, 100, 255}
	gradientOuter = color.RGBA{30, 5, 60, 255}
)

// Renderer turns text into QR code PNGs.
type Renderer struct {
	ImageSize int
	MaxFrames int
	// Workers caps how many animation frames are rendered at once.
	Workers int
}

// NewRenderer returns a Renderer producing square images of imageSize pixels.
// Non-positive arguments fall back to the defaults.
func NewRenderer(imageSize, maxFrames int) *Renderer {
	if imageSize <= 0 {
		imageSize = DefaultImageSize
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return &Renderer{ImageSize: imageSize, MaxFrames: maxFrames, Workers: runtime.GOMAXPROCS(0)}
}

// Generate renders input according to opts and folds any failure into the
// Err variant, so callers always get a well-formed Result.
func (r *Renderer) Generate(input string, opts Options) Result {
	log.Printf("[QR] generate: len=%d logo=%t gradient=%t transparent=%t animated=%t",
		len(input), opts.AddLogo, opts.AddGradient, opts.Transparent(), opts.Animated())

	if opts.Animation != nil {
		frames, err := r.Animated(input, opts)
		if err != nil {
			log.Printf("[QR] animated generation failed: %v", err)
			return ErrResult(err.Error())
		}
		log.Printf("[QR] generated %d frames", len(frames))
		return ImagesResult(frames)
	}

	img, err := r.Still(input, opts)
	if err != nil {
		log.Printf("[QR] generation failed: %v", err)
		return ErrResult(err.Error())
	}
	return ImageResult(img)
}

// Still renders a single PNG.
func (r *Renderer) Still(input string, opts Options) ([]byte, error) {
	qr, err := r.base(input)
	if err != nil {
		return nil, err
	}
	if opts.Transparent() {
		makeTransparent(qr)
	}
	if opts.AddLogo {
		if err := addLogo(qr, opts.Transparent()); err != nil {
			return nil, err
		}
	}
	if opts.AddGradient {
		addGradient(qr)
	}
	return encodePNG(qr)
}

// Animated renders opts.Animation.Frames PNGs whose dark modules move through
// the requested colors. The gradient flag is ignored: each frame carries a
// single color.
func (r *Renderer) Animated(input string, opts Options) ([][]byte, error) {
	anim := opts.Animation
	if anim == nil {
		return nil, fmt.Errorf("animation options are required")
	}
	if anim.Frames < 1 || anim.Frames > r.MaxFrames {
		return nil, fmt.Errorf("frame count must be between 1 and %d, got %d", r.MaxFrames, anim.Frames)
	}
	stops, err := parseColors(anim.Colors)
	if err != nil {
		return nil, err
	}

	base, err := r.base(input)
	if err != nil {
		return nil, err
	}
	if opts.Transparent() {
		makeTransparent(base)
	}
	if opts.AddLogo {
		if err := addLogo(base, opts.Transparent()); err != nil {
			return nil, err
		}
	}

	return renderFrames(anim.Frames, r.Workers, func(i int) ([]byte, error) {
		t := 0.0
		if anim.Frames > 1 {
			t = float64(i) / float64(anim.Frames-1)
		}
		frame := cloneRGBA(base)
		applyColor(frame, colorAt(stops, t))
		return encodePNG(frame)
	})
}

// renderFrames runs render for indices 0..n-1 on at most workers goroutines
// and returns the results in index order.
func renderFrames(n, workers int, render func(i int) ([]byte, error)) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := make([][]byte, n)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range frames {
		g.Go(func() error {
			data, err := render(i)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// base renders the black-on-white symbol at one pixel per module and scales
// it to the configured size with nearest neighbour to keep edges sharp.
func (r *Renderer) base(input string) (*image.RGBA, error) {
	qrc, err := qrcode.NewWith(input, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	tmpFile := filepath.Join(os.TempDir(), generateUniqueFilename("qr_matrix", ".png"))
	defer os.Remove(tmpFile)

	writer, err := standard.New(tmpFile,
		standard.WithQRWidth(1),
		standard.WithBorderWidth(quietZone),
		standard.WithBgColor(white),
		standard.WithFgColor(black),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR writer: %w", err)
	}
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("failed to generate QR code image: %w", err)
	}
	writer.Close()

	file, err := os.Open(tmpFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open QR matrix file: %w", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR matrix image: %w", err)
	}

	// Snap to pure black and white so later passes can match exact colors.
	b := decoded.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			lum, _, _, _ := color.GrayModel.Convert(decoded.At(b.Min.X+x, b.Min.Y+y)).RGBA()
			if lum < 32768 {
				src.SetRGBA(x, y, black)
			} else {
				src.SetRGBA(x, y, white)
			}
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.ImageSize, r.ImageSize))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// makeTransparent replaces opaque white pixels with transparent ones.
func makeTransparent(img *image.RGBA) {
	forEachPixel(img, func(c color.RGBA) (color.RGBA, bool) {
		if c == white {
			return color.RGBA{}, true
		}
		return c, false
	})
}

// addGradient recolors dark pixels by their Manhattan distance from the
// center of the image.
func addGradient(img *image.RGBA) {
	b := img.Bounds()
	size := min(b.Dx(), b.Dy())
	center := size / 2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != black {
				continue
			}
			distance := absInt(x-center) + absInt(y-center)
			t := clamp01(float64(distance) / float64(size))
			img.SetRGBA(x, y, lerpColor(gradientInner, gradientOuter, t))
		}
	}
}

// applyColor paints every dark pixel with c.
func applyColor(img *image.RGBA, c color.RGBA) {
	forEachPixel(img, func(p color.RGBA) (color.RGBA, bool) {
		if p == black {
			return c, true
		}
		return p, false
	})
}

func forEachPixel(img *image.RGBA, f func(color.RGBA) (color.RGBA, bool)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c, ok := f(img.RGBAAt(x, y)); ok {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// colorAt samples a uniform multi-stop gradient at t in [0, 1].
func colorAt(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 1 {
		return stops[0]
	}
	t = clamp01(t)
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return lerpColor(stops[i], stops[i+1], pos-float64(i))
}

// lerpColor performs linear interpolation between two colors
func lerpColor(color1, color2 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(color1.R) + t*(float64(color2.R)-float64(color1.R))),
		G: uint8(float64(color1.G) + t*(float64(color2.G)-float64(color1.G))),
		B: uint8(float64(color1.B) + t*(float64(color2.B)-float64(color1.B))),
		A: 255,
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Helper function to generate unique temporary filenames
func generateUniqueFilename(prefix, extension string) string {
	timestamp := time.Now().UnixNano()
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s_%d_%x%s", prefix, timestamp, randomBytes, extension)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
