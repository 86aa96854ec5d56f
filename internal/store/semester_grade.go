package store

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

type semesterGradeStore struct {
	queries db.DBTX
}

func newSemesterGradeStore(queries db.DBTX) SemesterGradeStore {
	return &semesterGradeStore{queries: queries}
}

func (s *semesterGradeStore) Upsert(ctx context.Context, subjectID int64, semester int, grade float64) error {
	_, err := s.queries.Exec(ctx, `
		INSERT INTO semester_grades (subject_id, semester, grade)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id, semester) DO UPDATE
		SET grade = EXCLUDED.grade, updated_at = now()`,
		subjectID, semester, grade,
	)
	return mapErr(err)
}

func (s *semesterGradeStore) ListByUser(ctx context.Context, userID int64) ([]model.SemesterGrade, error) {
	rows, err := s.queries.Query(ctx, `
		SELECT sg.subject_id, s.name, sg.semester, sg.grade
		FROM semester_grades sg
		JOIN subjects s ON s.id = sg.subject_id
		WHERE s.user_id = $1
		ORDER BY s.name, sg.semester`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SemesterGrade, error) {
		var sg model.SemesterGrade
		err := row.Scan(&sg.SubjectID, &sg.Subject, &sg.Semester, &sg.Grade)
		return sg, err
	})
}
