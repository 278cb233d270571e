// Package generation orchestrates the three generation workflows: composite
// try-on, text-to-image, and in-place edit. Each operation validates its
// inputs before any upstream call, issues exactly one image request, and
// classifies the outcome.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"outfit-studio-server/internal/domain"
)

// Orchestrator turns validated inputs into upstream capability calls.
type Orchestrator struct {
	capability Capability
	logger     zerolog.Logger
	now        func() time.Time
}

// NewOrchestrator constructs an Orchestrator over the given capability.
func NewOrchestrator(capability Capability, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{capability: capability, logger: logger, now: time.Now}
}

// TryOnInput carries everything a composite try-on request reads.
type TryOnInput struct {
	Items        []domain.UploadedItem
	Reference    *domain.UploadedItem
	Scene        string
	WantAnalysis bool
	Locale       string
}

// GenerateInput carries the text-to-image inputs.
type GenerateInput struct {
	Prompt      string
	AspectRatio domain.AspectRatio
}

// EditInput carries the in-place edit inputs.
type EditInput struct {
	Current     *domain.EncodedImage
	Instruction string
}

// TryOn composes the uploaded garments, the optional reference image and the
// scene description into a single image request. When analysis is wanted it
// is fetched in a second, strictly sequential call; a failed analysis never
// rolls back the already obtained image.
func (o *Orchestrator) TryOn(ctx context.Context, in TryOnInput) (*domain.GenerationResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one outfit item is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Scene) == "" {
		return nil, fmt.Errorf("%w: scene description is required", domain.ErrValidation)
	}

	parts := make([]domain.ComposePart, 0, len(in.Items)+2)
	for _, item := range in.Items {
		parts = append(parts, domain.ImagePart(domain.EncodedImage{Data: item.Data, MIMEType: item.MIMEType}))
	}
	if in.Reference != nil {
		parts = append(parts, domain.ImagePart(domain.EncodedImage{Data: in.Reference.Data, MIMEType: in.Reference.MIMEType}))
	}
	parts = append(parts, domain.TextPart(buildTryOnPrompt(in.Scene, len(in.Items), in.Reference != nil)))

	image, err := o.capability.ComposeImage(ctx, parts)
	if err != nil {
		return nil, err
	}

	result := &domain.GenerationResult{Image: *image, CreatedAt: o.now()}
	if in.WantAnalysis {
		// The analysis consumes the produced image, so it can only run
		// after the compose call has returned.
		analysis, err := o.capability.AnalyzeImage(ctx, *image, buildAnalysisPrompt(in.Scene, in.Locale))
		if err != nil {
			o.logger.Warn().Err(err).Msg("generation: analysis failed, returning image without commentary")
		} else {
			result.Analysis = analysis
		}
	}
	return result, nil
}

// Generate produces one image of the given aspect ratio from a free-text prompt.
func (o *Orchestrator) Generate(ctx context.Context, in GenerateInput) (*domain.GenerationResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if !in.AspectRatio.Valid() {
		return nil, fmt.Errorf("%w: unsupported aspect ratio %q", domain.ErrValidation, in.AspectRatio)
	}

	image, err := o.capability.TextToImage(ctx, in.Prompt, in.AspectRatio)
	if err != nil {
		return nil, err
	}
	return &domain.GenerationResult{Image: *image, CreatedAt: o.now()}, nil
}

// Edit applies an instruction to the current result image and produces the
// replacement artifact.
func (o *Orchestrator) Edit(ctx context.Context, in EditInput) (*domain.GenerationResult, error) {
	if in.Current == nil || in.Current.Empty() {
		return nil, fmt.Errorf("%w: no current image to edit", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Instruction) == "" {
		return nil, fmt.Errorf("%w: edit instruction is required", domain.ErrValidation)
	}

	image, err := o.capability.ComposeImage(ctx, []domain.ComposePart{
		domain.ImagePart(*in.Current),
		domain.TextPart(buildEditPrompt(in.Instruction)),
	})
	if err != nil {
		return nil, err
	}
	return &domain.GenerationResult{Image: *image, CreatedAt: o.now()}, nil
}
