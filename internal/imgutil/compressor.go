// Package imgutil conditions oversized input images before they are sent
// upstream, keeping compose requests within reasonable payload sizes.
package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// DefaultQuality is the JPEG quality used when recompressing inputs.
const DefaultQuality = 85

// CompressToJPEG re-encodes image data (PNG, GIF or JPEG) as JPEG at the
// given quality.
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkIfLarger recompresses data to JPEG when it exceeds maxBytes and the
// recompression actually helps. The original bytes and media type are kept
// whenever recompression fails or does not shrink the payload.
func ShrinkIfLarger(data []byte, mimeType string, maxBytes int) ([]byte, string) {
	if maxBytes <= 0 || len(data) <= maxBytes {
		return data, mimeType
	}
	compressed, err := CompressToJPEG(data, DefaultQuality)
	if err != nil || len(compressed) >= len(data) {
		return data, mimeType
	}
	return compressed, "image/jpeg"
}
