package service_test

import (
	"context"
	"encoding/base64"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/model"
	"bmgrades.app/tracker/internal/service"
)

func pngDataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

var _ = Describe("ScanService", func() {
	var (
		ctx       context.Context
		catalog   *curriculum.Catalog
		extractor *mockExtractor
		gb        service.GradebookService
	)

	BeforeEach(func() {
		ctx = context.Background()
		catalog = curriculum.MustLoad()
		extractor = &mockExtractor{}
		provider := newMockStoreProvider()
		provider.users.getByIDFn = func(context.Context, int64) (*model.User, error) {
			return &model.User{ID: userID, BMType: "DL", CurrentSemester: 1, MaturnoteGoal: 5}, nil
		}
		gb = service.NewGradebookService(catalog, newMockSnapshotStore(), provider, &mockTxRunner{stores: provider}, curriculum.TAL)
	})

	newScanService := func(maxBytes int) service.ScanService {
		return service.NewScanService(extractor, gb, catalog, maxBytes)
	}

	It("fails when no vision model is configured", func() {
		svc := service.NewScanService(nil, gb, catalog, 1024)
		_, _, err := svc.Scan(ctx, userID, service.ScanRequest{Image: pngDataURL("img"), ScanType: "SAL"})
		Expect(err).To(MatchError(service.ErrScanUnavailable))
	})

	DescribeTable("rejects invalid requests before calling the model",
		func(req service.ScanRequest, want error) {
			_, _, err := newScanService(16).Scan(ctx, userID, req)
			Expect(err).To(MatchError(want))
			Expect(extractor.calls).To(BeZero())
		},
		Entry("unknown scan type", service.ScanRequest{Image: pngDataURL("img"), ScanType: "Zeugnis"}, service.ErrInvalidScan),
		Entry("not a data URL", service.ScanRequest{Image: "https://example.com/a.png", ScanType: "SAL"}, service.ErrInvalidScan),
		Entry("pdf payload", service.ScanRequest{Image: "data:application/pdf;base64,JVBERi0=", ScanType: "Bulletin"}, service.ErrInvalidScan),
		Entry("decoded image over the limit", service.ScanRequest{Image: pngDataURL("0123456789abcdefX"), ScanType: "SAL"}, service.ErrImageTooLarge),
	)

	It("rejects an oversized encoded payload without decoding it", func() {
		huge := pngDataURL(string(make([]byte, 4096)))
		_, _, err := newScanService(16).Scan(ctx, userID, service.ScanRequest{Image: huge, ScanType: "SAL"})
		Expect(err).To(MatchError(service.ErrImageTooLarge))
	})

	It("extracts with the user's curriculum and reconciles a SAL scan", func() {
		extractor.extractFn = func(_ context.Context, mode extraction.Mode, img llm.Image, subjects []string) (*extraction.Result, error) {
			Expect(mode).To(Equal(extraction.ModeSAL))
			Expect(img.MediaType).To(Equal("image/png"))
			Expect(subjects).To(ContainElement(curriculum.FinanzRechnung))
			return &extraction.Result{
				Mode:     extraction.ModeSAL,
				Controls: []extraction.Control{{Subject: "FRW", Date: "2025-05-02", Grade: 5.5}},
			}, nil
		}

		m, res, err := newScanService(1024).Scan(ctx, userID, service.ScanRequest{Image: pngDataURL("img"), ScanType: "sal"})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Mode).To(Equal(extraction.ModeSAL))
		Expect(m.SAL.Added).To(HaveLen(1))
		Expect(m.SAL.Added[0].Subject).To(Equal(curriculum.FinanzRechnung))
		Expect(m.State.Subjects[curriculum.FinanzRechnung]).To(HaveLen(1))
	})

	It("treats an empty scan type as a bulletin", func() {
		extractor.extractFn = func(_ context.Context, mode extraction.Mode, _ llm.Image, _ []string) (*extraction.Result, error) {
			return &extraction.Result{Mode: mode, Grades: map[string]float64{"Deutsch": 5}}, nil
		}

		m, _, err := newScanService(1024).Scan(ctx, userID, service.ScanRequest{Image: pngDataURL("img")})

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Bulletin).NotTo(BeNil())
		Expect(m.Bulletin.Semester).To(Equal(1))
	})

	It("passes extraction errors through", func() {
		extractor.extractFn = func(context.Context, extraction.Mode, llm.Image, []string) (*extraction.Result, error) {
			return nil, fmt.Errorf("%w after 60s", extraction.ErrTimeout)
		}

		_, _, err := newScanService(1024).Scan(ctx, userID, service.ScanRequest{Image: pngDataURL("img"), ScanType: "SAL"})

		Expect(err).To(MatchError(extraction.ErrTimeout))
	})
})
