// Package gradebook holds one user's grade state and the operations on it.
//
// A State is treated as an immutable value: every mutation returns a new
// State and leaves the receiver untouched, so a caller can swap the whole
// state in one step.
package gradebook

import (
	"maps"
	"slices"

	"bmgrades.app/tracker/internal/curriculum"
)

// Defaults for a fresh gradebook.
const (
	DefaultGoal          = 5.0
	DefaultMaturnoteGoal = 5.0
	DefaultSemester      = 1
)

// Source records how a grade entry was created.
type Source string

const (
	SourceManual Source = "manual"
	SourceSAL    Source = "SAL"
)

// GradeEntry is one recorded assessment result.
type GradeEntry struct {
	ID            int64   `json:"id"`
	Grade         float64 `json:"grade"`
	Weight        float64 `json:"weight"`
	DisplayWeight string  `json:"displayWeight,omitempty"`
	Date          string  `json:"date,omitempty"`
	Name          string  `json:"name,omitempty"`
	Source        Source  `json:"source,omitempty"`
	// ControlKey is the SAL dedup key "subject-date-grade".
	ControlKey string `json:"controlId,omitempty"`
}

// PlannedControl is a hypothetical future assessment used for simulation only.
type PlannedControl struct {
	ID     int64   `json:"id"`
	Grade  float64 `json:"grade"`
	Weight float64 `json:"weight"`
}

// SubjectGradeSet maps a canonical subject to its entries in insertion order.
type SubjectGradeSet map[string][]GradeEntry

// SemesterGradeMap maps a subject to its finalized grade per semester.
type SemesterGradeMap map[string]map[int]float64

// Clone copies the map and every inner map.
func (m SemesterGradeMap) Clone() SemesterGradeMap {
	out := make(SemesterGradeMap, len(m))
	for subject, bySem := range m {
		out[subject] = cloneMap(bySem)
	}
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	maps.Copy(out, m)
	return out
}

// Latest returns each subject's grade of its highest recorded semester.
// Subjects without any semester grade are left out.
func (m SemesterGradeMap) Latest() map[string]float64 {
	out := make(map[string]float64, len(m))
	for subject, bySem := range m {
		latest, found := 0, false
		for sem := range bySem {
			if !found || sem > latest {
				latest, found = sem, true
			}
		}
		if found {
			out[subject] = bySem[latest]
		}
	}
	return out
}

// State is the whole gradebook of one user. The JSON form is the snapshot
// format.
type State struct {
	Subjects        SubjectGradeSet             `json:"subjects"`
	SemesterGrades  SemesterGradeMap            `json:"semesterGrades"`
	BMType          curriculum.BMType           `json:"bmType"`
	CurrentSemester int                         `json:"currentSemester"`
	SemesterPlans   map[string][]PlannedControl `json:"semesterPlans"`
	SubjectGoals    map[string]float64          `json:"subjectGoals"`
	MaturnoteGoal   float64                     `json:"maturnoteGoal"`
	ExamGrades      map[string]float64          `json:"examGrades"`
}

// New returns an empty gradebook for bmType.
func New(bmType curriculum.BMType) State {
	return State{
		Subjects:        SubjectGradeSet{},
		SemesterGrades:  SemesterGradeMap{},
		BMType:          bmType,
		CurrentSemester: DefaultSemester,
		SemesterPlans:   map[string][]PlannedControl{},
		SubjectGoals:    map[string]float64{},
		MaturnoteGoal:   DefaultMaturnoteGoal,
		ExamGrades:      map[string]float64{},
	}
}

// Normalize fills in missing maps and defaults, as found in older or partial
// snapshots.
func (s State) Normalize(defaultBMType curriculum.BMType) State {
	if s.Subjects == nil {
		s.Subjects = SubjectGradeSet{}
	}
	if s.SemesterGrades == nil {
		s.SemesterGrades = SemesterGradeMap{}
	}
	if s.BMType == "" {
		s.BMType = defaultBMType
	}
	if s.CurrentSemester < 1 {
		s.CurrentSemester = DefaultSemester
	}
	if s.SemesterPlans == nil {
		s.SemesterPlans = map[string][]PlannedControl{}
	}
	if s.SubjectGoals == nil {
		s.SubjectGoals = map[string]float64{}
	}
	if s.MaturnoteGoal == 0 {
		s.MaturnoteGoal = DefaultMaturnoteGoal
	}
	if s.ExamGrades == nil {
		s.ExamGrades = map[string]float64{}
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Subjects = make(SubjectGradeSet, len(s.Subjects))
	for subject, entries := range s.Subjects {
		out.Subjects[subject] = slices.Clone(entries)
	}
	out.SemesterGrades = s.SemesterGrades.Clone()
	out.SemesterPlans = make(map[string][]PlannedControl, len(s.SemesterPlans))
	for subject, plans := range s.SemesterPlans {
		out.SemesterPlans[subject] = slices.Clone(plans)
	}
	out.SubjectGoals = cloneMap(s.SubjectGoals)
	out.ExamGrades = cloneMap(s.ExamGrades)
	return out
}

// Goal returns the subject's target average, DefaultGoal if none is set.
func (s State) Goal(subject string) float64 {
	if g, ok := s.SubjectGoals[subject]; ok {
		return g
	}
	return DefaultGoal
}
