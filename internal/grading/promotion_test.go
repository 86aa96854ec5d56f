package grading_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/grading"
)

const idaf = "Interdisziplinäres Arbeiten in den Fächern"

func excludeIDAF(subject string) bool { return subject == idaf }

var _ = Describe("EvaluatePromotion", func() {
	It("promotes with one insufficient grade", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 3.5, "B": 4.5, "C": 5.0,
		}, excludeIDAF)

		Expect(*status.Average).To(Equal(4.3))
		Expect(*status.Deficit).To(Equal(0.5))
		Expect(*status.InsufficientCount).To(Equal(1))
		Expect(*status.IsPromoted).To(BeTrue())
		Expect(*status.Conditions).To(Equal(grading.PromotionConditions{
			AverageOK: true, DeficitOK: true, InsufficientOK: true,
		}))
	})

	It("accepts a deficit of exactly 2.0", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 3.0, "B": 3.0, "C": 5.0, "D": 5.0, "E": 5.0,
		}, excludeIDAF)

		Expect(*status.Deficit).To(Equal(2.0))
		Expect(*status.InsufficientCount).To(Equal(2))
		Expect(*status.Average).To(Equal(4.2))
		Expect(*status.IsPromoted).To(BeTrue())
	})

	It("fails on a third insufficient grade", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 3.5, "B": 3.5, "C": 3.5, "D": 6.0, "E": 6.0,
		}, excludeIDAF)

		Expect(*status.InsufficientCount).To(Equal(3))
		Expect(status.Conditions.InsufficientOK).To(BeFalse())
		Expect(status.Conditions.DeficitOK).To(BeTrue())
		Expect(*status.IsPromoted).To(BeFalse())
	})

	It("fails on a deficit above 2.0", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 2.0, "B": 3.5, "C": 6.0, "D": 6.0,
		}, excludeIDAF)

		Expect(status.Conditions.DeficitOK).To(BeFalse())
		Expect(*status.IsPromoted).To(BeFalse())
	})

	It("fails on an average below 4.0", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 3.5, "B": 4.0, "C": 4.0,
		}, excludeIDAF)

		Expect(*status.Average).To(Equal(3.8))
		Expect(status.Conditions.AverageOK).To(BeFalse())
		Expect(*status.IsPromoted).To(BeFalse())
	})

	It("ignores IDAF entirely", func() {
		status := grading.EvaluatePromotion(map[string]float64{
			"A": 5.0, idaf: 1.0,
		}, excludeIDAF)

		Expect(*status.Average).To(Equal(5.0))
		Expect(*status.Deficit).To(BeZero())
		Expect(*status.InsufficientCount).To(BeZero())
	})

	It("is undefined when only IDAF is present", func() {
		status := grading.EvaluatePromotion(map[string]float64{idaf: 5.0}, excludeIDAF)
		Expect(status.Average).To(BeNil())
		Expect(status.IsPromoted).To(BeNil())
		Expect(status.Conditions).To(BeNil())
	})

	It("is reproducible for the same input", func() {
		in := map[string]float64{"A": 4.1, "B": 3.7, "C": 5.3, "D": 4.9, "E": 3.3}
		first := grading.EvaluatePromotion(in, nil)
		for i := 0; i < 20; i++ {
			Expect(grading.EvaluatePromotion(in, nil)).To(Equal(first))
		}
	})
})
