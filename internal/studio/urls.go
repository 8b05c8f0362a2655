package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// URLConverter turns image bytes into something a view can display.
type URLConverter interface {
	ToURL(ctx context.Context, data []byte) (string, error)
	Release(url string)
}

const dataURLPrefix = "data:image/png;base64,"

// DataURLs encodes PNGs as data: URLs. Nothing needs releasing.
type DataURLs struct{}

func (DataURLs) ToURL(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

func (DataURLs) Release(string) {}

// DecodeDataURL returns the PNG bytes behind a URL produced by DataURLs.
func DecodeDataURL(url string) ([]byte, error) {
	if !strings.HasPrefix(url, dataURLPrefix) {
		return nil, errors.New("not a PNG data URL")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(url, dataURLPrefix))
}
