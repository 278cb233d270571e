package generation

import (
	"context"

	"outfit-studio-server/internal/domain"
)

// Capability is the slice of the upstream generation service the
// orchestrator consumes. The Gemini client implements it; tests stub it.
type Capability interface {
	// ComposeImage produces one image from ordered text/image parts.
	ComposeImage(ctx context.Context, parts []domain.ComposePart) (*domain.EncodedImage, error)
	// TextToImage produces one image of the given aspect ratio from a prompt.
	TextToImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (*domain.EncodedImage, error)
	// AnalyzeImage produces text commentary about an image.
	AnalyzeImage(ctx context.Context, image domain.EncodedImage, prompt string) (string, error)
}
