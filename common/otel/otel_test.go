package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/common/otel"
	"bmgrades.app/tracker/core/config"
)

var _ = Describe("ParseHeaders", func() {
	It("splits comma separated pairs", func() {
		Expect(otel.ParseHeaders("Authorization=Basic abc, x-team = grades")).To(Equal(map[string]string{
			"Authorization": "Basic abc",
			"x-team":        "grades",
		}))
	})

	It("keeps '=' inside values", func() {
		Expect(otel.ParseHeaders("token=a=b")).To(HaveKeyWithValue("token", "a=b"))
	})

	It("skips malformed pairs", func() {
		Expect(otel.ParseHeaders("novalue,,=x")).To(BeEmpty())
	})
})

var _ = Describe("Setup", func() {
	It("does nothing without an endpoint", func() {
		tel, err := otel.Setup(context.Background(), config.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(tel).To(BeNil())
		Expect(tel.Shutdown(context.Background())).To(Succeed())
	})
})
