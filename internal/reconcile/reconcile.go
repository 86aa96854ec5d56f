// Package reconcile merges extraction results into a gradebook.
//
// Records whose subject label cannot be normalized are dropped and counted;
// they never abort the batch. Neither function mutates its input.
package reconcile

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/gradebook"
)

// ErrWrongMode is returned when a result is fed to the reconciler of the
// other scan mode.
var ErrWrongMode = errors.New("extraction result has the wrong mode")

// gradeTolerance is how close two grades on the same date must be to count as
// the same assessment.
const gradeTolerance = 0.01

// AddedControl is a SAL record that became a new grade entry.
type AddedControl struct {
	Subject string               `json:"subject"`
	Control extraction.Control   `json:"control"`
	Entry   gradebook.GradeEntry `json:"entry"`
}

// SALOutcome is the result of merging a SAL scan.
type SALOutcome struct {
	Subjects   gradebook.SubjectGradeSet
	Added      []AddedControl
	Unmatched  int
	Duplicates int
}

// ControlKey is the dedup key of a SAL record.
func ControlKey(subject, date string, grade float64) string {
	return subject + "-" + date + "-" + strconv.FormatFloat(grade, 'f', -1, 64)
}

func isDuplicate(existing []gradebook.GradeEntry, key string, c extraction.Control) bool {
	return slices.ContainsFunc(existing, func(e gradebook.GradeEntry) bool {
		if e.ControlKey == key {
			return true
		}
		if e.Date != c.Date || math.Abs(e.Grade-c.Grade) >= gradeTolerance {
			return false
		}
		// An undated record only matches an undated entry from an earlier scan.
		return c.Date != "" || e.Source == gradebook.SourceSAL
	})
}

// SAL appends every new assessment of res to current, with weight 1.
//
// A record is a duplicate when the subject already holds an entry with the
// same control key, or one on the same date whose grade is within 0.01.
// Undated records are only matched that way against SAL entries.
// Records added earlier in the same batch count as existing.
func SAL(res *extraction.Result, current gradebook.SubjectGradeSet, vocab curriculum.Vocabulary, newID func() int64) (SALOutcome, error) {
	if res == nil || res.Mode != extraction.ModeSAL {
		return SALOutcome{}, ErrWrongMode
	}

	out := SALOutcome{Subjects: make(gradebook.SubjectGradeSet, len(current))}
	for subject, entries := range current {
		out.Subjects[subject] = entries
	}
	copied := map[string]bool{}

	for _, c := range res.Controls {
		subject, ok := curriculum.Normalize(c.Subject, vocab)
		if !ok {
			out.Unmatched++
			continue
		}

		key := ControlKey(subject, c.Date, c.Grade)
		if isDuplicate(out.Subjects[subject], key, c) {
			out.Duplicates++
			continue
		}

		entry := gradebook.GradeEntry{
			ID:            newID(),
			Grade:         c.Grade,
			Weight:        1,
			DisplayWeight: "1",
			Date:          c.Date,
			Name:          c.Name,
			Source:        gradebook.SourceSAL,
			ControlKey:    key,
		}
		if !copied[subject] {
			out.Subjects[subject] = slices.Clone(out.Subjects[subject])
			copied[subject] = true
		}
		out.Subjects[subject] = append(out.Subjects[subject], entry)
		out.Added = append(out.Added, AddedControl{Subject: subject, Control: c, Entry: entry})
	}
	return out, nil
}

// BulletinOutcome is the result of merging a bulletin scan.
type BulletinOutcome struct {
	SemesterGrades gradebook.SemesterGradeMap
	// Applied maps each canonical subject to the grade written for Semester.
	Applied   map[string]float64
	Semester  int
	Unmatched int
}

// Bulletin writes every grade of res into current at [subject][semester],
// overwriting earlier values. The semester is the one printed on the bulletin,
// or currentSemester when the model found none.
//
// When two labels resolve to the same subject, the label that sorts last wins.
func Bulletin(res *extraction.Result, current gradebook.SemesterGradeMap, vocab curriculum.Vocabulary, currentSemester int) (BulletinOutcome, error) {
	if res == nil || res.Mode != extraction.ModeBulletin {
		return BulletinOutcome{}, ErrWrongMode
	}

	semester := currentSemester
	if res.Semester != nil {
		semester = *res.Semester
	}
	if semester < 1 {
		return BulletinOutcome{}, fmt.Errorf("bulletin semester %d", semester)
	}

	out := BulletinOutcome{
		SemesterGrades: current.Clone(),
		Applied:        map[string]float64{},
		Semester:       semester,
	}
	for _, label := range res.Labels() {
		subject, ok := curriculum.Normalize(label, vocab)
		if !ok {
			out.Unmatched++
			continue
		}
		out.Applied[subject] = res.Grades[label]
	}

	for subject, grade := range out.Applied {
		if out.SemesterGrades[subject] == nil {
			out.SemesterGrades[subject] = map[int]float64{}
		}
		out.SemesterGrades[subject][semester] = grade
	}
	return out, nil
}
