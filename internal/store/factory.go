package store

import (
	"bmgrades.app/tracker/core/db"
)

type Stores struct {
	queries db.DBTX
}

func NewStores(queries db.DBTX) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Subjects() SubjectStore {
	return newSubjectStore(s.queries)
}

func (s *Stores) Grades() GradeStore {
	return newGradeStore(s.queries)
}

func (s *Stores) SemesterGrades() SemesterGradeStore {
	return newSemesterGradeStore(s.queries)
}

func (s *Stores) Plans() PlanStore {
	return newPlanStore(s.queries)
}

func (s *Stores) SubjectGoals() SubjectValueStore {
	return newSubjectValueStore(s.queries, "subject_goals", "goal")
}

func (s *Stores) ExamGrades() SubjectValueStore {
	return newSubjectValueStore(s.queries, "exam_grades", "grade")
}
