package domain

// ComposePart is one ordered element of a compose-image request: either text
// or an encoded image, never both.
type ComposePart struct {
	Text  string
	Image *EncodedImage
}

// TextPart builds a text-only compose part.
func TextPart(text string) ComposePart {
	return ComposePart{Text: text}
}

// ImagePart builds an image-only compose part.
func ImagePart(image EncodedImage) ComposePart {
	return ComposePart{Image: &image}
}
