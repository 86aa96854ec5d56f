package gradebook_test

import (
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/grading"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("mutations", func() {
	var (
		tal *curriculum.Curriculum
		s   gradebook.State
	)

	BeforeEach(func() {
		var err error
		tal, err = curriculum.MustLoad().Get(curriculum.TAL)
		Expect(err).NotTo(HaveOccurred())
		s = gradebook.New(curriculum.TAL)
	})

	Describe("AddGrade", func() {
		It("appends without touching the original state", func() {
			next, err := s.AddGrade(tal, curriculum.Mathematik, gradebook.GradeEntry{ID: 1, Grade: 5, Weight: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(next.Subjects[curriculum.Mathematik]).To(HaveLen(1))
			Expect(next.Subjects[curriculum.Mathematik][0].Source).To(Equal(gradebook.SourceManual))
			Expect(s.Subjects[curriculum.Mathematik]).To(BeEmpty())
		})

		It("keeps insertion order", func() {
			s, _ = s.AddGrade(tal, curriculum.Mathematik, gradebook.GradeEntry{ID: 2, Grade: 5, Weight: 1})
			s, _ = s.AddGrade(tal, curriculum.Mathematik, gradebook.GradeEntry{ID: 1, Grade: 4, Weight: 1})
			Expect(s.Subjects[curriculum.Mathematik][0].ID).To(Equal(int64(2)))
			Expect(s.Subjects[curriculum.Mathematik][1].ID).To(Equal(int64(1)))
		})

		It("rejects subjects outside the curriculum", func() {
			_, err := s.AddGrade(tal, curriculum.FinanzRechnung, gradebook.GradeEntry{ID: 1, Grade: 5, Weight: 1})
			Expect(err).To(MatchError(gradebook.ErrUnknownSubject))
		})

		It("rejects grades off the scale", func() {
			_, err := s.AddGrade(tal, curriculum.Deutsch, gradebook.GradeEntry{ID: 1, Grade: 6.5, Weight: 1})
			Expect(err).To(MatchError(gradebook.ErrGradeOutOfRange))
		})

		It("rejects non-positive weights", func() {
			_, err := s.AddGrade(tal, curriculum.Deutsch, gradebook.GradeEntry{ID: 1, Grade: 5, Weight: 0})
			Expect(err).To(MatchError(grading.ErrInvalidWeight))
		})
	})

	Describe("RemoveGrade", func() {
		It("removes by id and returns the entry", func() {
			s, _ = s.AddGrade(tal, curriculum.Deutsch, gradebook.GradeEntry{ID: 1, Grade: 5, Weight: 1})
			s, _ = s.AddGrade(tal, curriculum.Deutsch, gradebook.GradeEntry{ID: 2, Grade: 4, Weight: 1})

			next, removed, err := s.RemoveGrade(curriculum.Deutsch, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed.Grade).To(Equal(5.0))
			Expect(next.Subjects[curriculum.Deutsch]).To(HaveLen(1))
			Expect(s.Subjects[curriculum.Deutsch]).To(HaveLen(2))
		})

		It("reports unknown ids", func() {
			_, _, err := s.RemoveGrade(curriculum.Deutsch, 99)
			Expect(err).To(MatchError(gradebook.ErrEntryNotFound))
		})
	})

	Describe("SetSemesterGrade", func() {
		It("overwrites an earlier value for the same semester", func() {
			s, _ = s.SetSemesterGrade(tal, curriculum.Deutsch, 2, 4.5)
			s, _ = s.SetSemesterGrade(tal, curriculum.Deutsch, 2, 5.0)
			Expect(s.SemesterGrades[curriculum.Deutsch]).To(Equal(map[int]float64{2: 5.0}))
		})

		It("rejects semesters outside the programme", func() {
			_, err := s.SetSemesterGrade(tal, curriculum.Deutsch, 7, 5)
			Expect(err).To(MatchError(gradebook.ErrInvalidSemester))
		})
	})

	Describe("plans", func() {
		It("adds and removes planned controls", func() {
			s, err := s.AddPlan(tal, curriculum.Englisch, gradebook.PlannedControl{ID: 5, Grade: 5.5, Weight: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SemesterPlans[curriculum.Englisch]).To(HaveLen(1))

			s, err = s.RemovePlan(curriculum.Englisch, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SemesterPlans[curriculum.Englisch]).To(BeEmpty())

			_, err = s.RemovePlan(curriculum.Englisch, 5)
			Expect(err).To(MatchError(gradebook.ErrEntryNotFound))
		})
	})

	Describe("goals", func() {
		It("sets and clears a subject goal", func() {
			s, err := s.SetSubjectGoal(tal, curriculum.Deutsch, 5.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Goal(curriculum.Deutsch)).To(Equal(5.5))

			s = s.ClearSubjectGoal(curriculum.Deutsch)
			Expect(s.Goal(curriculum.Deutsch)).To(Equal(gradebook.DefaultGoal))
		})

		It("validates the Maturnote goal", func() {
			_, err := s.SetMaturnoteGoal(0.5)
			Expect(err).To(MatchError(gradebook.ErrGradeOutOfRange))
		})
	})

	Describe("SetExamGrade", func() {
		It("clamps to the grading scale", func() {
			s, err := s.SetExamGrade(tal, curriculum.Mathematik, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ExamGrades[curriculum.Mathematik]).To(Equal(6.0))

			s, err = s.SetExamGrade(tal, curriculum.Mathematik, 0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ExamGrades[curriculum.Mathematik]).To(Equal(1.0))
		})

		It("refuses subjects without a final exam", func() {
			_, err := s.SetExamGrade(tal, curriculum.IDAF, 5)
			Expect(err).To(MatchError(gradebook.ErrNotExamined))
		})
	})

	It("moves to another semester within the programme", func() {
		next, err := s.SetCurrentSemester(tal, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.CurrentSemester).To(Equal(4))

		_, err = s.SetCurrentSemester(tal, 0)
		Expect(err).To(MatchError(gradebook.ErrInvalidSemester))
	})
})
