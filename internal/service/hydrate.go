package service

import (
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/model"
)

// gradebookRows is everything the database holds about one user's gradebook.
type gradebookRows struct {
	user           *model.User
	grades         []model.Grade
	semesterGrades []model.SemesterGrade
	plans          []model.PlannedControl
	goals          []model.SubjectValue
	examGrades     []model.SubjectValue
}

// state assembles a gradebook from the rows. grades must belong to the user's
// current semester and be in insertion order.
func (r gradebookRows) state(defaultBMType curriculum.BMType) gradebook.State {
	state := gradebook.New(curriculum.BMType(r.user.BMType))
	state.CurrentSemester = r.user.CurrentSemester
	state.MaturnoteGoal = r.user.MaturnoteGoal

	for _, g := range r.grades {
		state.Subjects[g.Subject] = append(state.Subjects[g.Subject], gradebook.GradeEntry{
			ID:            g.ID,
			Grade:         g.Grade,
			Weight:        g.Weight,
			DisplayWeight: deref(g.DisplayWeight),
			Date:          deref(g.ControlDate),
			Name:          deref(g.ControlName),
			Source:        gradebook.Source(g.Source),
			ControlKey:    deref(g.ControlKey),
		})
	}
	for _, sg := range r.semesterGrades {
		if state.SemesterGrades[sg.Subject] == nil {
			state.SemesterGrades[sg.Subject] = map[int]float64{}
		}
		state.SemesterGrades[sg.Subject][sg.Semester] = sg.Grade
	}
	for _, p := range r.plans {
		state.SemesterPlans[p.Subject] = append(state.SemesterPlans[p.Subject], gradebook.PlannedControl{
			ID:     p.ID,
			Grade:  p.Grade,
			Weight: p.Weight,
		})
	}
	for _, g := range r.goals {
		state.SubjectGoals[g.Subject] = g.Value
	}
	for _, e := range r.examGrades {
		state.ExamGrades[e.Subject] = e.Value
	}
	return state.Normalize(defaultBMType)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
