package extraction_test

import (
	"context"
	"errors"
	"time"

	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/internal/extraction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extractor", func() {
	var (
		ctx      context.Context
		client   *mockVisionClient
		cache    *memoryCache
		img      llm.Image
		subjects []string
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockVisionClient{}
		cache = newMemoryCache()
		img = llm.Image{MediaType: "image/png", Data: []byte("bulletin-pixels")}
		subjects = []string{"Deutsch", "Mathematik"}
	})

	It("sends the image and a mode specific prompt", func() {
		var got llm.VisionRequest
		client.describeFn = func(_ context.Context, req llm.VisionRequest) (*llm.VisionResponse, error) {
			got = req
			return &llm.VisionResponse{Text: `{"semester": 1, "grades": {"Deutsch": 5}}`}, nil
		}

		ex := extraction.NewExtractor(client, nil, time.Second)
		res, err := ex.Extract(ctx, extraction.ModeBulletin, img, subjects)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Grades).To(HaveKeyWithValue("Deutsch", 5.0))

		Expect(got.Images).To(ConsistOf(img))
		Expect(got.JSON).To(BeTrue())
		Expect(got.Prompt).To(ContainSubstring("report card"))
		Expect(got.Prompt).To(ContainSubstring("Deutsch, Mathematik"))
	})

	It("maps a deadline to ErrTimeout", func() {
		client.describeFn = func(ctx context.Context, _ llm.VisionRequest) (*llm.VisionResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}

		ex := extraction.NewExtractor(client, nil, 10*time.Millisecond)
		_, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
		Expect(err).To(MatchError(extraction.ErrTimeout))
		Expect(err).NotTo(MatchError(extraction.ErrUpstream))
	})

	It("wraps provider failures as upstream errors", func() {
		boom := errors.New("connection reset")
		client.describeFn = func(context.Context, llm.VisionRequest) (*llm.VisionResponse, error) {
			return nil, boom
		}

		ex := extraction.NewExtractor(client, nil, time.Second)
		_, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
		Expect(err).To(MatchError(extraction.ErrUpstream))
		Expect(errors.Is(err, boom)).To(BeTrue())

		var upstream *extraction.UpstreamError
		Expect(errors.As(err, &upstream)).To(BeTrue())
		Expect(upstream.Retryable).To(BeTrue())
	})

	It("passes declared errors through without caching them", func() {
		client.describeFn = func(context.Context, llm.VisionRequest) (*llm.VisionResponse, error) {
			return &llm.VisionResponse{Text: `{"error": "blurry"}`}, nil
		}

		ex := extraction.NewExtractor(client, cache, time.Second)
		_, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
		var declared *extraction.DeclaredError
		Expect(errors.As(err, &declared)).To(BeTrue())
		Expect(cache.entries).To(BeEmpty())
	})

	Describe("caching", func() {
		BeforeEach(func() {
			client.describeFn = func(context.Context, llm.VisionRequest) (*llm.VisionResponse, error) {
				return &llm.VisionResponse{Text: `{"controls": [{"subject": "Deutsch", "date": "2025-01-01", "name": "Test", "grade": 5}]}`}, nil
			}
		})

		It("answers a repeated image from the cache", func() {
			ex := extraction.NewExtractor(client, cache, time.Second)

			first, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Cached).To(BeFalse())

			second, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Cached).To(BeTrue())
			Expect(second.Controls).To(Equal(first.Controls))
			Expect(client.calls).To(Equal(1))
		})

		It("keys the cache by mode", func() {
			Expect(extraction.CacheKey(extraction.ModeSAL, img)).NotTo(Equal(extraction.CacheKey(extraction.ModeBulletin, img)))
		})

		It("falls through to the model when the cache fails", func() {
			cache.getErr = errors.New("redis down")
			ex := extraction.NewExtractor(client, cache, time.Second)

			res, err := ex.Extract(ctx, extraction.ModeSAL, img, subjects)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Controls).To(HaveLen(1))
			Expect(client.calls).To(Equal(1))
		})
	})
})

var _ = Describe("Prompt", func() {
	It("embeds the SAL schema and the subject list", func() {
		p, err := extraction.Prompt(extraction.ModeSAL, []string{"Deutsch", "Englisch"})
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(ContainSubstring(`"controls"`))
		Expect(p).To(ContainSubstring("Deutsch, Englisch"))
		Expect(p).To(ContainSubstring("129-INP"))
	})

	It("rejects unknown modes", func() {
		_, err := extraction.Prompt(extraction.Mode("PDF"), nil)
		Expect(err).To(HaveOccurred())
	})
})
