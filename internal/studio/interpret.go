package studio

import (
	"fmt"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

// Outcome is a successful generation: either Single or Frames is set.
type Outcome struct {
	Single []byte
	Frames [][]byte
}

// Animated reports whether the outcome is a frame sequence.
func (o Outcome) Animated() bool { return o.Frames != nil }

// Interpret classifies a backend result. An Err result becomes a
// *BackendError; any other unrecognised shape is reported as an error too.
func Interpret(res qrcode.Result) (Outcome, error) {
	switch res.Kind {
	case qrcode.KindErr:
		return Outcome{}, &BackendError{Message: res.Message}
	case qrcode.KindImages:
		frames := res.Images
		if frames == nil {
			frames = [][]byte{}
		}
		return Outcome{Frames: frames}, nil
	case qrcode.KindImage:
		return Outcome{Single: res.Image}, nil
	default:
		return Outcome{}, fmt.Errorf("unrecognised result variant %v", res.Kind)
	}
}
