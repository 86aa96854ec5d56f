package gradebook

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/grading"
)

var (
	ErrUnknownSubject  = errors.New("subject not in curriculum")
	ErrNotExamined     = errors.New("subject is not examined")
	ErrGradeOutOfRange = errors.New("grade outside 1-6")
	ErrInvalidSemester = errors.New("invalid semester")
	ErrEntryNotFound   = errors.New("entry not found")
)

func checkSubject(cur *curriculum.Curriculum, subject string) error {
	if !cur.Has(subject) {
		return fmt.Errorf("%w: %q (%s)", ErrUnknownSubject, subject, cur.BMType)
	}
	return nil
}

func checkGrade(g float64) error {
	if math.IsNaN(g) || g < grading.MinGrade || g > grading.MaxGrade {
		return fmt.Errorf("%w: %v", ErrGradeOutOfRange, g)
	}
	return nil
}

// AddGrade appends e to subject. The caller assigns e.ID.
func (s State) AddGrade(cur *curriculum.Curriculum, subject string, e GradeEntry) (State, error) {
	if err := checkSubject(cur, subject); err != nil {
		return s, err
	}
	if err := checkGrade(e.Grade); err != nil {
		return s, err
	}
	w, err := grading.WeightFromNumber(e.Weight)
	if err != nil {
		return s, err
	}
	e.Weight = w
	if e.Source == "" {
		e.Source = SourceManual
	}

	out := s.Clone()
	out.Subjects[subject] = append(out.Subjects[subject], e)
	return out, nil
}

// RemoveGrade deletes the entry with id from subject.
func (s State) RemoveGrade(subject string, id int64) (State, GradeEntry, error) {
	idx := slices.IndexFunc(s.Subjects[subject], func(e GradeEntry) bool { return e.ID == id })
	if idx < 0 {
		return s, GradeEntry{}, fmt.Errorf("%w: grade %d in %q", ErrEntryNotFound, id, subject)
	}
	removed := s.Subjects[subject][idx]

	out := s.Clone()
	out.Subjects[subject] = slices.Delete(out.Subjects[subject], idx, idx+1)
	return out, removed, nil
}

// WithSubjects replaces the whole SubjectGradeSet.
func (s State) WithSubjects(subjects SubjectGradeSet) State {
	out := s.Clone()
	out.Subjects = subjects
	return out
}

// SetSemesterGrade records the finalized grade of subject for semester,
// overwriting any earlier value.
func (s State) SetSemesterGrade(cur *curriculum.Curriculum, subject string, semester int, grade float64) (State, error) {
	if err := checkSubject(cur, subject); err != nil {
		return s, err
	}
	if !cur.ValidSemester(semester) {
		return s, fmt.Errorf("%w: %d", ErrInvalidSemester, semester)
	}
	if err := checkGrade(grade); err != nil {
		return s, err
	}

	out := s.Clone()
	if out.SemesterGrades[subject] == nil {
		out.SemesterGrades[subject] = map[int]float64{}
	}
	out.SemesterGrades[subject][semester] = grade
	return out, nil
}

// WithSemesterGrades replaces the whole SemesterGradeMap.
func (s State) WithSemesterGrades(grades SemesterGradeMap) State {
	out := s.Clone()
	out.SemesterGrades = grades
	return out
}

// AddPlan appends a planned control to subject. The caller assigns p.ID.
func (s State) AddPlan(cur *curriculum.Curriculum, subject string, p PlannedControl) (State, error) {
	if err := checkSubject(cur, subject); err != nil {
		return s, err
	}
	if err := checkGrade(p.Grade); err != nil {
		return s, err
	}
	w, err := grading.WeightFromNumber(p.Weight)
	if err != nil {
		return s, err
	}
	p.Weight = w

	out := s.Clone()
	out.SemesterPlans[subject] = append(out.SemesterPlans[subject], p)
	return out, nil
}

// RemovePlan deletes the planned control with id from subject.
func (s State) RemovePlan(subject string, id int64) (State, error) {
	idx := slices.IndexFunc(s.SemesterPlans[subject], func(p PlannedControl) bool { return p.ID == id })
	if idx < 0 {
		return s, fmt.Errorf("%w: plan %d in %q", ErrEntryNotFound, id, subject)
	}

	out := s.Clone()
	out.SemesterPlans[subject] = slices.Delete(out.SemesterPlans[subject], idx, idx+1)
	return out, nil
}

// SetSubjectGoal sets the rounded average subject should reach.
func (s State) SetSubjectGoal(cur *curriculum.Curriculum, subject string, goal float64) (State, error) {
	if err := checkSubject(cur, subject); err != nil {
		return s, err
	}
	if err := checkGrade(goal); err != nil {
		return s, err
	}

	out := s.Clone()
	out.SubjectGoals[subject] = goal
	return out, nil
}

// ClearSubjectGoal resets subject to DefaultGoal.
func (s State) ClearSubjectGoal(subject string) State {
	out := s.Clone()
	delete(out.SubjectGoals, subject)
	return out
}

// SetExamGrade stores a simulated exam grade, clamped to the grading scale.
// Only examined subjects take one.
func (s State) SetExamGrade(cur *curriculum.Curriculum, subject string, grade float64) (State, error) {
	sub, ok := cur.Subject(subject)
	if !ok {
		return s, fmt.Errorf("%w: %q (%s)", ErrUnknownSubject, subject, cur.BMType)
	}
	if !sub.Examined {
		return s, fmt.Errorf("%w: %q", ErrNotExamined, subject)
	}
	if math.IsNaN(grade) {
		return s, fmt.Errorf("%w: %v", ErrGradeOutOfRange, grade)
	}

	out := s.Clone()
	out.ExamGrades[subject] = math.Min(math.Max(grade, grading.MinGrade), grading.MaxGrade)
	return out, nil
}

// ClearExamGrade removes the simulated exam grade of subject.
func (s State) ClearExamGrade(subject string) State {
	out := s.Clone()
	delete(out.ExamGrades, subject)
	return out
}

// SetBMType switches the curriculum. Recorded grades are kept.
func (s State) SetBMType(bmType curriculum.BMType) State {
	out := s.Clone()
	out.BMType = bmType
	return out
}

// SetCurrentSemester changes the semester new grades are recorded for.
func (s State) SetCurrentSemester(cur *curriculum.Curriculum, semester int) (State, error) {
	if !cur.ValidSemester(semester) {
		return s, fmt.Errorf("%w: %d", ErrInvalidSemester, semester)
	}
	out := s.Clone()
	out.CurrentSemester = semester
	return out, nil
}

// SetMaturnoteGoal sets the target Maturnote for the exam simulator.
func (s State) SetMaturnoteGoal(goal float64) (State, error) {
	if err := checkGrade(goal); err != nil {
		return s, err
	}
	out := s.Clone()
	out.MaturnoteGoal = goal
	return out, nil
}
