package qrcode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	return img
}

func countColor(img image.Image, want color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) == want {
				n++
			}
		}
	}
	return n
}

func TestStillSize(t *testing.T) {
	r := NewRenderer(290, 0)
	data, err := r.Still("hello", Options{})
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	img := decode(t, data)
	if img.Bounds().Dx() != 290 || img.Bounds().Dy() != 290 {
		t.Errorf("expected 290x290, got %v", img.Bounds())
	}
	if countColor(img, black) == 0 || countColor(img, white) == 0 {
		t.Error("expected both dark and light modules")
	}
}

func TestStillTransparency(t *testing.T) {
	r := NewRenderer(290, 0)
	yes := true
	data, err := r.Still("hello", Options{AddTransparency: &yes})
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	img := decode(t, data)
	if countColor(img, white) != 0 {
		t.Error("white pixels should have become transparent")
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("quiet zone alpha = %d, want 0", a)
	}
}

func TestStillGradientRemovesPureBlack(t *testing.T) {
	r := NewRenderer(290, 0)
	data, err := r.Still("hello", Options{AddGradient: true})
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	if n := countColor(decode(t, data), black); n != 0 {
		t.Errorf("expected no pure black pixels after gradient, got %d", n)
	}
}

func TestStillLogoCoversCenter(t *testing.T) {
	r := NewRenderer(290, 0)
	plain, err := r.Still("hello", Options{})
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	withLogo, err := r.Still("hello", Options{AddLogo: true})
	if err != nil {
		t.Fatalf("Still with logo failed: %v", err)
	}
	if bytes.Equal(plain, withLogo) {
		t.Error("logo did not change the image")
	}
	img := decode(t, withLogo)
	// Corners stay untouched by a centered logo.
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != white {
		t.Errorf("corner pixel = %v, want white", got)
	}
}

func TestAnimatedFrames(t *testing.T) {
	r := NewRenderer(290, 0)
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	frames, err := r.Animated("hello", Options{Animation: &AnimationOptions{Frames: 3, Colors: []string{"#FF0000", "#00FF00"}}})
	if err != nil {
		t.Fatalf("Animated failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	first := decode(t, frames[0])
	if countColor(first, red) == 0 || countColor(first, black) != 0 {
		t.Error("first frame should be painted red")
	}
	last := decode(t, frames[2])
	if countColor(last, green) == 0 || countColor(last, red) != 0 {
		t.Error("last frame should be painted green")
	}
}

func TestAnimatedSingleFrame(t *testing.T) {
	r := NewRenderer(290, 0)
	frames, err := r.Animated("hello", Options{Animation: &AnimationOptions{Frames: 1, Colors: []string{"#0000FF", "#00FF00"}}})
	if err != nil {
		t.Fatalf("Animated failed: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if countColor(decode(t, frames[0]), color.RGBA{0, 0, 255, 255}) == 0 {
		t.Error("single frame should use the first color")
	}
}

func TestGenerateFoldsErrors(t *testing.T) {
	r := NewRenderer(290, 10)
	tests := []struct {
		name string
		anim AnimationOptions
		want string
	}{
		{"zero frames", AnimationOptions{Frames: 0, Colors: []string{"#000000", "#FFFFFF"}}, "frame count"},
		{"too many frames", AnimationOptions{Frames: 11, Colors: []string{"#000000", "#FFFFFF"}}, "frame count"},
		{"bad color", AnimationOptions{Frames: 2, Colors: []string{"red", "#FFFFFF"}}, "Invalid color format"},
		{"no colors", AnimationOptions{Frames: 2}, "at least one color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim := tt.anim
			res := r.Generate("hello", Options{Animation: &anim})
			if res.Kind != KindErr {
				t.Fatalf("kind = %v, want Err", res.Kind)
			}
			if !strings.Contains(res.Message, tt.want) {
				t.Errorf("message %q does not contain %q", res.Message, tt.want)
			}
		})
	}
}

func TestGenerateVariants(t *testing.T) {
	r := NewRenderer(290, 0)
	if res := r.Generate("hello", Options{}); res.Kind != KindImage || len(res.Image) == 0 {
		t.Errorf("expected Image, got %v", res.Kind)
	}
	res := r.Generate("hello", Options{Animation: &AnimationOptions{Frames: 2, Colors: []string{"#FF0000", "#0000FF"}}})
	if res.Kind != KindImages || len(res.Images) != 2 {
		t.Errorf("expected 2 Images, got %v/%d", res.Kind, len(res.Images))
	}
}

func TestColorAt(t *testing.T) {
	stops := []color.RGBA{{0, 0, 0, 255}, {200, 100, 0, 255}, {0, 0, 200, 255}}
	if got := colorAt(stops, 0); got != stops[0] {
		t.Errorf("colorAt(0) = %v", got)
	}
	if got := colorAt(stops, 0.5); got != stops[1] {
		t.Errorf("colorAt(0.5) = %v", got)
	}
	if got := colorAt(stops, 1); got != stops[2] {
		t.Errorf("colorAt(1) = %v", got)
	}
	if got := colorAt(stops, 0.25); got != (color.RGBA{100, 50, 0, 255}) {
		t.Errorf("colorAt(0.25) = %v", got)
	}
}

func TestParseHexColor(t *testing.T) {
	got, err := ParseHexColor("#FF8000")
	if err != nil || got != (color.RGBA{255, 128, 0, 255}) {
		t.Errorf("ParseHexColor = %v, %v", got, err)
	}
	for _, bad := range []string{"FF8000", "#FF80", "#GG0000", ""} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) succeeded, want error", bad)
		}
	}
}

func TestElementSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	// A 6px dark square starting at (12, 12).
	for y := 12; y < 18; y++ {
		for x := 12; x < 18; x++ {
			img.SetRGBA(x, y, black)
		}
	}
	if got := elementSize(img); got != 6 {
		t.Errorf("elementSize = %d, want 6", got)
	}
}

func TestRenderFramesBoundsConcurrency(t *testing.T) {
	const workers = 3
	var active, peak atomic.Int32
	frames, err := renderFrames(40, workers, func(i int) ([]byte, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return []byte{byte(i)}, nil
	})
	if err != nil {
		t.Fatalf("renderFrames failed: %v", err)
	}
	if p := peak.Load(); p > workers {
		t.Errorf("peak concurrency = %d, want at most %d", p, workers)
	}
	for i, f := range frames {
		if len(f) != 1 || f[0] != byte(i) {
			t.Fatalf("frame %d out of order: %v", i, f)
		}
	}
}

func TestRenderFramesReportsFailingIndex(t *testing.T) {
	_, err := renderFrames(5, 2, func(i int) ([]byte, error) {
		if i == 3 {
			return nil, errors.New("boom")
		}
		return []byte{1}, nil
	})
	if err == nil || !strings.Contains(err.Error(), "frame 3") {
		t.Errorf("expected frame 3 error, got %v", err)
	}
}

func TestNewRendererDefaultsWorkers(t *testing.T) {
	if got, want := NewRenderer(0, 0).Workers, runtime.GOMAXPROCS(0); got != want {
		t.Errorf("workers = %d, want %d", got, want)
	}
}

func TestAnimatedSingleWorker(t *testing.T) {
	r := NewRenderer(290, 0)
	r.Workers = 1
	frames, err := r.Animated("hello", Options{Animation: &AnimationOptions{
		Frames: 4,
		Colors: []string{"#FF0000", "#00FF00"},
	}})
	if err != nil {
		t.Fatalf("Animated failed: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames", len(frames))
	}
	if countColor(decode(t, frames[3]), color.RGBA{0, 255, 0, 255}) == 0 {
		t.Error("last frame should carry the last color")
	}
}
