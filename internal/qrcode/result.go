package qrcode

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind discriminates the variants of a Result.
type Kind int

const (
	KindInvalid Kind = iota
	KindImage
	KindImages
	KindErr
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindImages:
		return "Images"
	case KindErr:
		return "Err"
	default:
		return "Invalid"
	}
}

// Result is the tagged outcome of a generation call. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Result struct {
	Kind    Kind
	Image   []byte
	Images  [][]byte
	Message string
}

// ImageResult wraps a single PNG.
func ImageResult(png []byte) Result { return Result{Kind: KindImage, Image: png} }

// ImagesResult wraps an ordered frame sequence.
func ImagesResult(frames [][]byte) Result { return Result{Kind: KindImages, Images: frames} }

// ErrResult wraps a failure message.
func ErrResult(message string) Result { return Result{Kind: KindErr, Message: message} }

type wireError struct {
	Message string `json:"message"`
}

// MarshalJSON writes a single-key object named after the variant.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindImage:
		return json.Marshal(map[string][]byte{"Image": r.Image})
	case KindImages:
		frames := r.Images
		if frames == nil {
			frames = [][]byte{}
		}
		return json.Marshal(map[string][][]byte{"Images": frames})
	case KindErr:
		return json.Marshal(map[string]wireError{"Err": {Message: r.Message}})
	default:
		return nil, errors.New("qrcode: cannot encode result without a variant")
	}
}

// UnmarshalJSON accepts exactly one of the known variant keys.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("qrcode: result must have exactly one variant key, got %d", len(raw))
	}
	for key, body := range raw {
		switch key {
		case "Image":
			var png []byte
			if err := json.Unmarshal(body, &png); err != nil {
				return fmt.Errorf("qrcode: decode Image: %w", err)
			}
			*r = ImageResult(png)
		case "Images":
			var frames [][]byte
			if err := json.Unmarshal(body, &frames); err != nil {
				return fmt.Errorf("qrcode: decode Images: %w", err)
			}
			*r = ImagesResult(frames)
		case "Err":
			var e wireError
			if err := json.Unmarshal(body, &e); err != nil {
				return fmt.Errorf("qrcode: decode Err: %w", err)
			}
			*r = ErrResult(e.Message)
		default:
			return fmt.Errorf("qrcode: unknown result variant %q", key)
		}
	}
	return nil
}
