package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const defaultMaxTokens = 4096

// ErrInvalidDataURL is returned by ParseDataURL for anything that is not a
// base64 encoded image data URL.
var ErrInvalidDataURL = errors.New("invalid image data URL")

// Config holds LLM client configuration.
type Config struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string // Required: API key for the provider
	BaseURL   string // Optional: custom API endpoint
	Model     string // Model name (e.g., "gpt-4o", "claude-sonnet-4-5-20250929")
	MaxTokens int    // Optional: default completion budget
}

// VisionClient answers a text prompt about one or more images.
type VisionClient interface {
	Describe(ctx context.Context, req VisionRequest) (*VisionResponse, error)
	Model() string
}

// Image is a decoded image payload.
type Image struct {
	MediaType string // e.g. "image/png"
	Data      []byte
}

// DataURL renders the image as a base64 data URL.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

type VisionRequest struct {
	SystemPrompt string
	Prompt       string
	Images       []Image
	JSON         bool // ask for a JSON object where the provider supports it
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

type VisionResponse struct {
	Text             string
	FinishReason     string // "stop", "length", ...
	PromptTokens     int
	CompletionTokens int
}

// NewVisionClient creates a VisionClient for cfg.Provider.
// Defaults to Anthropic if no provider is specified.
func NewVisionClient(cfg Config) (VisionClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderAnthropic
	}

	switch provider {
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// ParseDataURL decodes "data:<media type>;base64,<payload>". Only image media
// types are accepted.
func ParseDataURL(s string) (Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	mediaType = strings.ToLower(mediaType)
	if !strings.HasPrefix(mediaType, "image/") {
		return Image{}, fmt.Errorf("%w: unsupported media type %q", ErrInvalidDataURL, mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}
	return Image{MediaType: mediaType, Data: data}, nil
}

// GenerateSchema generates a JSON schema for T.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether err is a transient provider failure (rate limit,
// server error or network error) that a later attempt may not hit.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	status := 0
	var openaiErr *openai.Error
	var anthropicErr *anthropic.Error
	switch {
	case errors.As(err, &openaiErr):
		status = openaiErr.StatusCode
	case errors.As(err, &anthropicErr):
		status = anthropicErr.StatusCode
	default:
		// Network errors (no API response) are generally retryable
		slog.WarnContext(ctx, "llm network error", "error", err)
		return true
	}

	switch {
	case status == 429:
		slog.WarnContext(ctx, "llm rate limited", "status_code", status)
		return true
	case status >= 500:
		slog.WarnContext(ctx, "llm server error", "status_code", status)
		return true
	default:
		slog.ErrorContext(ctx, "llm client error, not retryable", "status_code", status)
		return false
	}
}

func maxTokens(req, cfg int) int {
	if req > 0 {
		return req
	}
	if cfg > 0 {
		return cfg
	}
	return defaultMaxTokens
}
