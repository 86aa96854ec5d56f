package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/common/logger"
)

// DefaultTimeout bounds a single vision call.
const DefaultTimeout = 60 * time.Second

// Extractor runs scans through a vision client.
type Extractor interface {
	Extract(ctx context.Context, mode Mode, img llm.Image, subjects []string) (*Result, error)
}

type extractor struct {
	client  llm.VisionClient
	cache   Cache
	timeout time.Duration
}

// NewExtractor creates an Extractor. cache may be nil.
func NewExtractor(client llm.VisionClient, cache Cache, timeout time.Duration) Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &extractor{client: client, cache: cache, timeout: timeout}
}

// Extract asks the model to read img and parses its answer. Answers that parse
// are cached by image hash, so re-uploading the same picture does not cost a
// second model call.
func (e *extractor) Extract(ctx context.Context, mode Mode, img llm.Image, subjects []string) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ScanMode:  logger.Ptr(string(mode)),
		Component: "tracker.extraction",
	})

	key := CacheKey(mode, img)
	if res, ok := e.fromCache(ctx, mode, key); ok {
		return res, nil
	}

	prompt, err := Prompt(mode, subjects)
	if err != nil {
		return nil, err
	}

	sc := logger.StartSpan(ctx, "extraction.describe")
	defer sc.End()

	callCtx, cancel := context.WithTimeout(sc.Context(), e.timeout)
	defer cancel()

	resp, err := e.client.Describe(callCtx, llm.VisionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		Images:       []llm.Image{img},
		JSON:         true,
		Temperature:  llm.Temp(0),
	})
	if err != nil {
		sc.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			slog.WarnContext(ctx, "vision call timed out", "timeout", e.timeout)
			return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, &UpstreamError{Err: err, Retryable: llm.IsRetryable(ctx, err)}
	}

	res, err := Parse(mode, resp.Text)
	if err != nil {
		slog.InfoContext(ctx, "extraction answer rejected",
			"error", err,
			"answer", logger.Truncate(resp.Text, 200))
		return nil, err
	}

	slog.InfoContext(ctx, "extraction parsed",
		"model", e.client.Model(),
		"controls", len(res.Controls),
		"grades", len(res.Grades),
		"dropped", res.Dropped,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, resp.Text); err != nil {
			slog.WarnContext(ctx, "failed to cache extraction", "error", err)
		}
	}
	return res, nil
}

func (e *extractor) fromCache(ctx context.Context, mode Mode, key string) (*Result, bool) {
	if e.cache == nil {
		return nil, false
	}
	answer, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "scan cache unavailable", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	res, err := Parse(mode, answer)
	if err != nil {
		return nil, false
	}
	res.Cached = true
	slog.DebugContext(ctx, "scan cache hit")
	return res, true
}
