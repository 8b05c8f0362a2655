package studio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

// MinColors is the smallest palette an animation accepts.
const MinColors = 2

// Fields holds the raw values of the generation form.
type Fields struct {
	Text        string
	Logo        bool
	Gradient    bool
	Transparent bool
	Animated    bool
	Frames      string
	Colors      []string
	Consensus   bool
}

// GenerationRequest is what the backend is asked to render.
type GenerationRequest struct {
	Text    string
	Options qrcode.Options
}

// Committing reports whether the request must take the committing call path.
func (r GenerationRequest) Committing(consensus bool) bool {
	return r.Options.Animation != nil || consensus
}

// BuildRequest converts form fields into a request. It has no side effects.
func BuildRequest(f Fields) (GenerationRequest, error) {
	req := GenerationRequest{
		Text: f.Text,
		Options: qrcode.Options{
			AddLogo:     f.Logo,
			AddGradient: f.Gradient,
		},
	}
	if f.Transparent {
		yes := true
		req.Options.AddTransparency = &yes
	}
	if !f.Animated {
		return req, nil
	}

	frames, err := strconv.Atoi(strings.TrimSpace(f.Frames))
	if err != nil || frames < 1 {
		return GenerationRequest{}, &ValidationError{Reason: fmt.Sprintf("frame count must be a positive integer, got %q", f.Frames)}
	}
	if len(f.Colors) < MinColors {
		return GenerationRequest{}, &ValidationError{Reason: "need at least 2 colors"}
	}
	colors := make([]string, len(f.Colors))
	copy(colors, f.Colors)
	req.Options.Animation = &qrcode.AnimationOptions{Frames: frames, Colors: colors}
	return req, nil
}
