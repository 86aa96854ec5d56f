package grading_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/grading"
)

func entries(pairs ...float64) []grading.Entry {
	out := make([]grading.Entry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, grading.Entry{Grade: pairs[i], Weight: pairs[i+1]})
	}
	return out
}

var _ = Describe("WeightedAverage", func() {
	It("is undefined for an empty set", func() {
		_, ok := grading.WeightedAverage(nil)
		Expect(ok).To(BeFalse())
	})

	It("is undefined when the total weight is zero", func() {
		_, ok := grading.WeightedAverage(entries(5, 0, 4, 0))
		Expect(ok).To(BeFalse())
	})

	It("computes Σ(g·w)/Σw", func() {
		avg, ok := grading.WeightedAverage(entries(5, 1, 4, 2, 6, 0.5))
		Expect(ok).To(BeTrue())
		Expect(avg).To(Equal((5*1 + 4*2 + 6*0.5) / 3.5))
	})
})

var _ = Describe("SemesterAverage", func() {
	DescribeTable("always lands on a half point",
		func(set []grading.Entry) {
			avg, ok := grading.SemesterAverage(set)
			Expect(ok).To(BeTrue())
			Expect(math.Mod(avg*2, 1)).To(BeZero())
		},
		Entry("single grade", entries(4.3, 1)),
		Entry("mixed weights", entries(5.2, 1, 3.9, 0.5, 4.4, 2)),
		Entry("quarter point", entries(4.75, 1)),
		Entry("low grades", entries(1, 1, 2.1, 1)),
	)

	DescribeTable("rounds ties up",
		func(set []grading.Entry, expected float64) {
			avg, _ := grading.SemesterAverage(set)
			Expect(avg).To(Equal(expected))
		},
		Entry("4.25 -> 4.5", entries(4, 1, 4.5, 1), 4.5),
		Entry("4.75 -> 5.0", entries(4.5, 1, 5, 1), 5.0),
		Entry("4.7 -> 4.5", entries(4.7, 1), 4.5),
	)

	It("propagates undefined", func() {
		_, ok := grading.SemesterAverage(nil)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Erfahrungsnote", func() {
	It("is undefined without semester grades", func() {
		_, ok := grading.Erfahrungsnote(map[int]float64{})
		Expect(ok).To(BeFalse())
	})

	It("rounds the 5.25 midpoint up to 5.5", func() {
		note, ok := grading.Erfahrungsnote(map[int]float64{1: 5.0, 2: 5.5})
		Expect(ok).To(BeTrue())
		Expect(note).To(Equal(5.5))
	})

	It("averages without weights", func() {
		note, _ := grading.Erfahrungsnote(map[int]float64{1: 4.0, 2: 4.5, 3: 5.5, 4: 6.0})
		Expect(note).To(Equal(5.0))
	})
})

var _ = Describe("Rounding helpers", func() {
	DescribeTable("RoundTenth",
		func(in, expected float64) {
			Expect(grading.RoundTenth(in)).To(Equal(expected))
		},
		Entry("down", 4.333, 4.3),
		Entry("up", 4.36, 4.4),
		Entry("tie", 4.25, 4.3),
	)
})

var _ = Describe("RequiredGrade", func() {
	It("round-trips back to the target", func() {
		set := entries(5, 1, 4, 2, 3.5, 0.5)
		target, weight := 4.6, 1.5

		p := grading.RequiredGrade(set, target, weight)
		Expect(p.Defined()).To(BeTrue())

		withNext := append(set, grading.Entry{Grade: p.Grade, Weight: weight})
		avg, ok := grading.WeightedAverage(withNext)
		Expect(ok).To(BeTrue())
		Expect(avg).To(BeNumerically("~", target, 1e-9))
	})

	It("flags an unreachable goal as above range", func() {
		p := grading.RequiredGrade(entries(5, 1, 4, 2), 4.8, 1)
		Expect(p.Grade).To(BeNumerically("~", 6.2, 1e-9))
		Expect(p.Status).To(Equal(grading.ProjectionAboveRange))
	})

	It("flags an exceeded goal as below range", func() {
		p := grading.RequiredGrade(entries(6, 3), 4.0, 1)
		Expect(p.Grade).To(BeNumerically("~", -2, 1e-9))
		Expect(p.Status).To(Equal(grading.ProjectionBelowRange))
	})

	It("is undefined without entries", func() {
		Expect(grading.RequiredGrade(nil, 5, 1).Defined()).To(BeFalse())
	})

	It("is undefined for a non-positive next weight", func() {
		Expect(grading.RequiredGrade(entries(5, 1), 5, 0).Defined()).To(BeFalse())
	})
})

var _ = Describe("RequiredGradeForRoundedGoal", func() {
	It("aims a quarter point below the goal and rounds to a tenth", func() {
		p := grading.RequiredGradeForRoundedGoal(entries(5, 1), entries(5, 1), 5.5, 1)
		Expect(p.Grade).To(Equal(5.8))
		Expect(p.Status).To(Equal(grading.ProjectionInRange))
	})

	It("counts plans even when no grade is recorded yet", func() {
		p := grading.RequiredGradeForRoundedGoal(nil, entries(4, 1), 5.0, 1)
		Expect(p.Grade).To(Equal(5.5))
	})

	It("is undefined with neither grades nor plans", func() {
		Expect(grading.RequiredGradeForRoundedGoal(nil, nil, 5, 1).Defined()).To(BeFalse())
	})
})

var _ = Describe("SimulatedAverage", func() {
	It("treats plans like recorded grades", func() {
		avg, ok := grading.SimulatedAverage(entries(4, 1), entries(6, 1))
		Expect(ok).To(BeTrue())
		Expect(avg).To(Equal(5.0))
	})

	It("works with plans only", func() {
		avg, ok := grading.SimulatedAverage(nil, entries(5.5, 2))
		Expect(ok).To(BeTrue())
		Expect(avg).To(Equal(5.5))
	})
})
