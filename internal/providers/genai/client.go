// Package genai implements the upstream capability provider over the Gemini
// v1beta REST surface: image composition, text-to-image generation, and image
// analysis.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"outfit-studio-server/internal/domain"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// Timeout bounds each upstream call. Zero means no explicit bound.
	Timeout time.Duration
	// CallsPerMinute paces requests against the API. Zero disables pacing.
	CallsPerMinute int
}

// Client is a thin facade over the Gemini REST API. It owns classification
// of failures into the transport/generation error taxonomy so callers only
// deal with domain errors.
type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	textModel  string
	httpClient *http.Client
	logger     zerolog.Logger
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one is created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("genai: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.CallsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.CallsPerMinute)/60.0), opts.CallsPerMinute)
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		imageModel: imageModel,
		textModel:  textModel,
		httpClient: httpClient,
		logger:     opts.Logger,
		timeout:    opts.Timeout,
		limiter:    limiter,
	}, nil
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount int                `json:"candidateCount,omitempty"`
	ImageConfig    *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// ComposeImage sends the ordered text/image parts to the image model and
// returns the single produced image. A response without image bytes is a
// generation failure, not a transport one.
func (c *Client) ComposeImage(ctx context.Context, parts []domain.ComposePart) (*domain.EncodedImage, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: compose request has no parts", domain.ErrValidation)
	}

	payload := geminiGenerateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: encodeParts(parts)}},
		GenerationConfig: &geminiGenerationConfig{CandidateCount: 1},
	}

	response, err := c.invoke(ctx, c.imageModel, payload)
	if err != nil {
		return nil, err
	}
	image := firstImage(response)
	if image == nil {
		return nil, fmt.Errorf("%w: no image produced", domain.ErrGeneration)
	}
	c.logger.Debug().Str("model", c.imageModel).Int("bytes", len(image.Data)).Msg("genai: composed image")
	return image, nil
}

// TextToImage asks the image model for exactly one image of the given aspect
// ratio described by prompt.
func (c *Client) TextToImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (*domain.EncodedImage, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount: 1,
			ImageConfig:    &geminiImageConfig{AspectRatio: string(aspectRatio)},
		},
	}

	response, err := c.invoke(ctx, c.imageModel, payload)
	if err != nil {
		return nil, err
	}
	image := firstImage(response)
	if image == nil {
		return nil, fmt.Errorf("%w: no image produced", domain.ErrGeneration)
	}
	c.logger.Debug().Str("model", c.imageModel).Str("aspect_ratio", string(aspectRatio)).Msg("genai: generated image")
	return image, nil
}

// AnalyzeImage sends the image with an instruction to the text model and
// returns the produced commentary.
func (c *Client) AnalyzeImage(ctx context.Context, image domain.EncodedImage, prompt string) (string, error) {
	if image.Empty() {
		return "", fmt.Errorf("%w: analysis needs an image", domain.ErrValidation)
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: image.MIMEType, Data: base64.StdEncoding.EncodeToString(image.Data)}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{CandidateCount: 1},
	}

	response, err := c.invoke(ctx, c.textModel, payload)
	if err != nil {
		return "", err
	}
	text := collectText(response)
	if text == "" {
		return "", fmt.Errorf("%w: no analysis produced", domain.ErrGeneration)
	}
	return text, nil
}

func (c *Client) invoke(ctx context.Context, model string, payload geminiGenerateContentRequest) (*geminiGenerateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: upstream call timed out: %w", domain.ErrTransport, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransport, resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return nil, fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return nil, fmt.Errorf("%w: gemini status %d", domain.ErrTransport, resp.StatusCode)
	}

	var response geminiGenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	return &response, nil
}

func encodeParts(parts []domain.ComposePart) []geminiPart {
	out := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		if p.Image != nil {
			out = append(out, geminiPart{InlineData: &geminiInlineData{
				MimeType: p.Image.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Image.Data),
			}})
			continue
		}
		out = append(out, geminiPart{Text: p.Text})
	}
	return out
}

func firstImage(response *geminiGenerateContentResponse) *domain.EncodedImage {
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil || len(data) == 0 {
				continue
			}
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &domain.EncodedImage{Data: data, MIMEType: mimeType}
		}
	}
	return nil
}

func collectText(response *geminiGenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
