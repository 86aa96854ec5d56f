package grading

import (
	"maps"
	"slices"
)

// ExamAverage blends the Erfahrungsnote and the exam grade 50/50 into the
// Maturnote of an examined subject.
func ExamAverage(erfahrungsnote, examGrade float64) float64 {
	return (erfahrungsnote + examGrade) / 2
}

// RequiredExamGrade is the exam grade that brings the Maturnote to target.
// Like RequiredGrade it is not clamped.
func RequiredExamGrade(erfahrungsnote, target float64) Projection {
	return newProjection(2*target - erfahrungsnote)
}

// SubjectExam pairs a subject's Erfahrungsnote with its simulated exam grade.
// Either side may be missing.
type SubjectExam struct {
	Erfahrungsnote *float64
	ExamGrade      *float64
}

// OverallAverage is the unweighted mean of the exam averages of all subjects
// that have both an Erfahrungsnote and an exam grade. Subjects missing either
// are skipped, not counted as zero.
func OverallAverage(subjects map[string]SubjectExam) (float64, bool) {
	names := slices.Sorted(maps.Keys(subjects))

	var sum float64
	n := 0
	for _, name := range names {
		s := subjects[name]
		if s.Erfahrungsnote == nil || s.ExamGrade == nil {
			continue
		}
		sum += ExamAverage(*s.Erfahrungsnote, *s.ExamGrade)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
