// Package payload converts local files and previously produced artifacts
// into the binary-plus-media-type form the upstream capability consumes.
package payload

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"outfit-studio-server/internal/domain"
)

const defaultResultMIMEType = "image/jpeg"

// EncodeFile reads the full content of r and pairs it with its media type.
// A failed or empty read surfaces domain.ErrRead; unreadable input is never
// coerced into valid-looking empty data. When declaredType is blank the type
// is sniffed from the content.
func EncodeFile(r io.Reader, declaredType string) (domain.EncodedImage, error) {
	if r == nil {
		return domain.EncodedImage{}, fmt.Errorf("%w: no file content", domain.ErrRead)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.EncodedImage{}, fmt.Errorf("%w: %v", domain.ErrRead, err)
	}
	if len(data) == 0 {
		return domain.EncodedImage{}, fmt.Errorf("%w: file is empty", domain.ErrRead)
	}
	mimeType := strings.TrimSpace(declaredType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return domain.EncodedImage{Data: data, MIMEType: mimeType}, nil
}

// WrapEncodedResult wraps an already-produced artifact for reuse as input to
// a subsequent edit call. The bytes are not re-read from anywhere; they are
// carried through as-is. An empty media type defaults to image/jpeg.
func WrapEncodedResult(data []byte, mimeType string) domain.EncodedImage {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = defaultResultMIMEType
	}
	return domain.EncodedImage{Data: data, MIMEType: mimeType}
}
