package extraction_test

import (
	"context"

	"bmgrades.app/tracker/common/llm"
)

type mockVisionClient struct {
	describeFn func(ctx context.Context, req llm.VisionRequest) (*llm.VisionResponse, error)
	calls      int
}

func (m *mockVisionClient) Describe(ctx context.Context, req llm.VisionRequest) (*llm.VisionResponse, error) {
	m.calls++
	if m.describeFn != nil {
		return m.describeFn(ctx, req)
	}
	return &llm.VisionResponse{}, nil
}

func (m *mockVisionClient) Model() string {
	return "mock-vision"
}

type memoryCache struct {
	entries map[string]string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, answer string) error {
	c.entries[key] = answer
	return nil
}
