package gradebook

import (
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/grading"
)

// DefaultNextWeight is the weight assumed for the next assessment when
// projecting a required grade.
const DefaultNextWeight = 1.0

func entries(gs []GradeEntry) []grading.Entry {
	out := make([]grading.Entry, len(gs))
	for i, g := range gs {
		out[i] = grading.Entry{Grade: g.Grade, Weight: g.Weight}
	}
	return out
}

func plans(ps []PlannedControl) []grading.Entry {
	out := make([]grading.Entry, len(ps))
	for i, p := range ps {
		out[i] = grading.Entry{Grade: p.Grade, Weight: p.Weight}
	}
	return out
}

func ptr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// SemesterAverage is the half-point average of subject's current entries.
func (s State) SemesterAverage(subject string) (float64, bool) {
	return grading.SemesterAverage(entries(s.Subjects[subject]))
}

// SimulatedAverage averages current entries together with planned controls.
func (s State) SimulatedAverage(subject string) (float64, bool) {
	return grading.SimulatedAverage(entries(s.Subjects[subject]), plans(s.SemesterPlans[subject]))
}

// RequiredGrade projects the grade of weight nextWeight needed to bring the
// current entries to target.
func (s State) RequiredGrade(subject string, target, nextWeight float64) grading.Projection {
	return grading.RequiredGrade(entries(s.Subjects[subject]), target, nextWeight)
}

// RequiredForGoal projects the grade needed, on top of current entries and
// plans, for the rounded semester average to reach the subject goal.
func (s State) RequiredForGoal(subject string, nextWeight float64) grading.Projection {
	return grading.RequiredGradeForRoundedGoal(
		entries(s.Subjects[subject]),
		plans(s.SemesterPlans[subject]),
		s.Goal(subject),
		nextWeight,
	)
}

// Erfahrungsnote averages subject's finalized semester grades.
func (s State) Erfahrungsnote(subject string) (float64, bool) {
	return grading.Erfahrungsnote(s.SemesterGrades[subject])
}

// ExamAverage blends Erfahrungsnote and simulated exam grade.
func (s State) ExamAverage(subject string) (float64, bool) {
	e, ok := s.Erfahrungsnote(subject)
	if !ok {
		return 0, false
	}
	exam, ok := s.ExamGrades[subject]
	if !ok {
		return 0, false
	}
	return grading.ExamAverage(e, exam), true
}

// RequiredExamGrade is the exam grade that brings subject to the Maturnote
// goal. Undefined without an Erfahrungsnote.
func (s State) RequiredExamGrade(subject string) grading.Projection {
	e, ok := s.Erfahrungsnote(subject)
	if !ok {
		return grading.Projection{}
	}
	return grading.RequiredExamGrade(e, s.MaturnoteGoal)
}

// OverallAverage averages the exam averages of every subject with both an
// Erfahrungsnote and a simulated exam grade.
func (s State) OverallAverage() (float64, bool) {
	subjects := make(map[string]grading.SubjectExam, len(s.SemesterGrades))
	for subject := range s.SemesterGrades {
		se := grading.SubjectExam{}
		if e, ok := s.Erfahrungsnote(subject); ok {
			se.Erfahrungsnote = &e
		}
		if exam, ok := s.ExamGrades[subject]; ok {
			se.ExamGrade = &exam
		}
		subjects[subject] = se
	}
	return grading.OverallAverage(subjects)
}

// Promotion evaluates the BM1 rule on each subject's latest semester grade.
func (s State) Promotion() grading.PromotionStatus {
	return grading.EvaluatePromotion(s.SemesterGrades.Latest(), curriculum.PromotionExcluded)
}

// SimulatedPromotion evaluates the BM1 rule on the simulated semester
// averages, rounded to the half point.
func (s State) SimulatedPromotion() grading.PromotionStatus {
	simulated := make(map[string]float64, len(s.Subjects))
	for subject := range s.Subjects {
		if avg, ok := s.SimulatedAverage(subject); ok {
			simulated[subject] = grading.RoundHalf(avg)
		}
	}
	return grading.EvaluatePromotion(simulated, curriculum.PromotionExcluded)
}

// SubjectSummary is every computed figure for one subject.
type SubjectSummary struct {
	Subject            string             `json:"subject"`
	Area               curriculum.Area    `json:"area"`
	Examined           bool               `json:"examined"`
	TaughtThisSemester bool               `json:"taught_this_semester"`
	Entries            int                `json:"entries"`
	Plans              int                `json:"plans"`
	WeightedAverage    *float64           `json:"weighted_average"`
	SemesterAverage    *float64           `json:"semester_average"`
	SimulatedAverage   *float64           `json:"simulated_average"`
	Goal               float64            `json:"goal"`
	RequiredGrade      grading.Projection `json:"required_grade"`
	RequiredForGoal    grading.Projection `json:"required_for_goal"`
	Erfahrungsnote     *float64           `json:"erfahrungsnote"`
	ExamGrade          *float64           `json:"exam_grade"`
	ExamAverage        *float64           `json:"exam_average"`
	RequiredExamGrade  grading.Projection `json:"required_exam_grade"`
	// Maturnote is the exam average for examined subjects and the
	// Erfahrungsnote otherwise.
	Maturnote *float64 `json:"maturnote"`
}

// Summary is the computed view of a whole gradebook.
type Summary struct {
	BMType             curriculum.BMType       `json:"bm_type"`
	CurrentSemester    int                     `json:"current_semester"`
	MaturnoteGoal      float64                 `json:"maturnote_goal"`
	Subjects           []SubjectSummary        `json:"subjects"`
	OverallAverage     *float64                `json:"overall_average"`
	Promotion          grading.PromotionStatus `json:"promotion"`
	SimulatedPromotion grading.PromotionStatus `json:"simulated_promotion"`
}

// Summarize computes every figure for every subject of cur, in curriculum
// order. nextWeight is the weight assumed for the next assessment.
func (s State) Summarize(cur *curriculum.Curriculum, nextWeight float64) Summary {
	if nextWeight <= 0 {
		nextWeight = DefaultNextWeight
	}

	sum := Summary{
		BMType:             s.BMType,
		CurrentSemester:    s.CurrentSemester,
		MaturnoteGoal:      s.MaturnoteGoal,
		Subjects:           make([]SubjectSummary, 0, len(cur.Subjects)),
		Promotion:          s.Promotion(),
		SimulatedPromotion: s.SimulatedPromotion(),
	}
	sum.OverallAverage = ptr(s.OverallAverage())

	for _, sub := range cur.Subjects {
		name := sub.Name
		ss := SubjectSummary{
			Subject:            name,
			Area:               sub.Area,
			Examined:           sub.Examined,
			TaughtThisSemester: sub.TaughtIn(s.CurrentSemester),
			Entries:            len(s.Subjects[name]),
			Plans:              len(s.SemesterPlans[name]),
			WeightedAverage:    ptr(grading.WeightedAverage(entries(s.Subjects[name]))),
			SemesterAverage:    ptr(s.SemesterAverage(name)),
			SimulatedAverage:   ptr(s.SimulatedAverage(name)),
			Goal:               s.Goal(name),
			RequiredGrade:      s.RequiredGrade(name, s.Goal(name), nextWeight),
			RequiredForGoal:    s.RequiredForGoal(name, nextWeight),
			Erfahrungsnote:     ptr(s.Erfahrungsnote(name)),
			ExamAverage:        ptr(s.ExamAverage(name)),
			RequiredExamGrade:  s.RequiredExamGrade(name),
		}
		if exam, ok := s.ExamGrades[name]; ok {
			ss.ExamGrade = &exam
		}
		if sub.Examined {
			ss.Maturnote = ss.ExamAverage
		} else {
			ss.Maturnote = ss.Erfahrungsnote
		}
		sum.Subjects = append(sum.Subjects, ss)
	}
	return sum
}
