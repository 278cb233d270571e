package domain

import "time"

// EncodedImage is the binary-plus-media-type payload exchanged with the
// upstream capability in both directions.
type EncodedImage struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the payload carries no bytes.
func (e EncodedImage) Empty() bool {
	return len(e.Data) == 0
}

// GenerationResult is the single current output artifact of a session. A new
// successful call replaces it as a whole; a failed call never produces a
// partially updated result.
type GenerationResult struct {
	Image     EncodedImage
	Analysis  string
	CreatedAt time.Time
}
