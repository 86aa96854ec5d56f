package store

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

type gradeStore struct {
	queries db.DBTX
}

func newGradeStore(queries db.DBTX) GradeStore {
	return &gradeStore{queries: queries}
}

func (s *gradeStore) Create(ctx context.Context, grade *model.Grade) error {
	err := s.queries.QueryRow(ctx, `
		INSERT INTO grades (id, subject_id, semester, grade, weight, display_weight, control_name, control_date, control_key, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		grade.ID, grade.SubjectID, grade.Semester, grade.Grade, grade.Weight,
		grade.DisplayWeight, grade.ControlName, grade.ControlDate, grade.ControlKey, grade.Source,
	).Scan(&grade.CreatedAt)
	return mapErr(err)
}

func (s *gradeStore) Delete(ctx context.Context, userID, id int64) error {
	tag, err := s.queries.Exec(ctx, `
		DELETE FROM grades g
		USING subjects s
		WHERE g.subject_id = s.id AND s.user_id = $1 AND g.id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gradeStore) ListByUserAndSemester(ctx context.Context, userID int64, semester int) ([]model.Grade, error) {
	rows, err := s.queries.Query(ctx, `
		SELECT g.id, g.subject_id, s.name, g.semester, g.grade, g.weight, g.display_weight,
		       g.control_name, g.control_date, g.control_key, g.source, g.created_at
		FROM grades g
		JOIN subjects s ON s.id = g.subject_id
		WHERE s.user_id = $1 AND g.semester = $2
		ORDER BY g.created_at, g.id`,
		userID, semester,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Grade, error) {
		var g model.Grade
		err := row.Scan(
			&g.ID, &g.SubjectID, &g.Subject, &g.Semester, &g.Grade, &g.Weight, &g.DisplayWeight,
			&g.ControlName, &g.ControlDate, &g.ControlKey, &g.Source, &g.CreatedAt,
		)
		return g, err
	})
}
