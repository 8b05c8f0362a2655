package qrcode

import (
	"encoding/json"
	"fmt"
)

// Options describes how a QR code should be rendered.
type Options struct {
	AddLogo     bool
	AddGradient bool
	// AddTransparency is nil when the caller did not ask for it.
	AddTransparency *bool
	// Animation is nil for a single still image.
	Animation *AnimationOptions
}

// AnimationOptions asks for a sequence of frames whose dark modules fade
// through Colors.
type AnimationOptions struct {
	Frames int      `json:"frames"`
	Colors []string `json:"colors"`
}

// Transparent reports whether transparency was explicitly requested.
func (o Options) Transparent() bool {
	return o.AddTransparency != nil && *o.AddTransparency
}

// Animated reports whether the options ask for a frame sequence.
func (o Options) Animated() bool {
	return o.Animation != nil
}

// wireOptions is the JSON shape exchanged with the backend. Optional values
// travel as zero- or one-element arrays.
type wireOptions struct {
	AddLogo         bool               `json:"add_logo"`
	AddGradient     bool               `json:"add_gradient"`
	AddTransparency []bool             `json:"add_transparency"`
	Animation       []AnimationOptions `json:"animation"`
}

// MarshalJSON encodes the options in the backend's optional-array convention.
func (o Options) MarshalJSON() ([]byte, error) {
	w := wireOptions{
		AddLogo:         o.AddLogo,
		AddGradient:     o.AddGradient,
		AddTransparency: []bool{},
		Animation:       []AnimationOptions{},
	}
	if o.AddTransparency != nil {
		w.AddTransparency = []bool{*o.AddTransparency}
	}
	if o.Animation != nil {
		w.Animation = []AnimationOptions{*o.Animation}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the optional-array convention. More than one element
// in an optional slot is rejected.
func (o *Options) UnmarshalJSON(data []byte) error {
	var w wireOptions
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.AddTransparency) > 1 {
		return fmt.Errorf("add_transparency: expected at most one value, got %d", len(w.AddTransparency))
	}
	if len(w.Animation) > 1 {
		return fmt.Errorf("animation: expected at most one value, got %d", len(w.Animation))
	}
	*o = Options{AddLogo: w.AddLogo, AddGradient: w.AddGradient}
	if len(w.AddTransparency) == 1 {
		v := w.AddTransparency[0]
		o.AddTransparency = &v
	}
	if len(w.Animation) == 1 {
		a := w.Animation[0]
		o.Animation = &a
	}
	return nil
}

// CommitHeader carries the id the server assigned to a committed generation.
const CommitHeader = "X-QR-Commit-ID"

// Request is the body of both generation calls.
type Request struct {
	Input   string  `json:"input"`
	Options Options `json:"options"`
}
