package grading_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/grading"
)

var _ = Describe("ParseWeight", func() {
	DescribeTable("accepted forms",
		func(raw string, expected float64) {
			w, err := grading.ParseWeight(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(w).To(Equal(expected))
		},
		Entry("fraction", "1/2", 0.5),
		Entry("fraction with spaces", " 3 / 4 ", 0.75),
		Entry("percentage", "50%", 0.5),
		Entry("percentage with space", "25 %", 0.25),
		Entry("decimal", "1.5", 1.5),
		Entry("trailing garbage ignored", "2x", 2.0),
		Entry("leading dot", ".5", 0.5),
	)

	DescribeTable("rejected forms",
		func(raw string) {
			_, err := grading.ParseWeight(raw)
			Expect(err).To(MatchError(grading.ErrInvalidWeight))
		},
		Entry("empty", ""),
		Entry("not a number", "abc"),
		Entry("zero", "0"),
		Entry("negative", "-1"),
		Entry("division by zero", "1/0"),
		Entry("zero percent", "0%"),
	)
})

var _ = Describe("WeightFromNumber", func() {
	It("passes positive numbers through", func() {
		w, err := grading.WeightFromNumber(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(2.0))
	})

	It("rejects zero", func() {
		_, err := grading.WeightFromNumber(0)
		Expect(err).To(MatchError(grading.ErrInvalidWeight))
	})
})
