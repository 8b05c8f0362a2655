package qrcode

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var errColorFormat = errors.New("Invalid color format. Use hex colors (e.g., '#FF0000')")

// ParseHexColor parses a "#RRGGBB" string into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") || len(s) != 7 {
		return color.RGBA{}, errColorFormat
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{}, errColorFormat
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}

func parseColors(colors []string) ([]color.RGBA, error) {
	if len(colors) == 0 {
		return nil, errors.New("animation requires at least one color")
	}
	out := make([]color.RGBA, 0, len(colors))
	for _, c := range colors {
		rgba, err := ParseHexColor(c)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", c, err)
		}
		out = append(out, rgba)
	}
	return out, nil
}
