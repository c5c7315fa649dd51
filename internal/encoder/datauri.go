package encoder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// PNGPrefix is the data URI header for inline PNG images.
const PNGPrefix = "data:image/png;base64,"

// Encode serializes img as PNG and returns it as a data URI.
func Encode(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image is nil")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return EncodePNG(buf.Bytes()), nil
}

// EncodePNG wraps already encoded PNG bytes in a data URI.
func EncodePNG(data []byte) string {
	return PNGPrefix + base64.StdEncoding.EncodeToString(data)
}
