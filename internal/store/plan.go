package store

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

type planStore struct {
	queries db.DBTX
}

func newPlanStore(queries db.DBTX) PlanStore {
	return &planStore{queries: queries}
}

func (s *planStore) Create(ctx context.Context, plan *model.PlannedControl) error {
	_, err := s.queries.Exec(ctx, `
		INSERT INTO planned_controls (id, subject_id, grade, weight)
		VALUES ($1, $2, $3, $4)`,
		plan.ID, plan.SubjectID, plan.Grade, plan.Weight,
	)
	return mapErr(err)
}

func (s *planStore) Delete(ctx context.Context, userID, id int64) error {
	tag, err := s.queries.Exec(ctx, `
		DELETE FROM planned_controls p
		USING subjects s
		WHERE p.subject_id = s.id AND s.user_id = $1 AND p.id = $2`,
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

func (s *planStore) ListByUser(ctx context.Context, userID int64) ([]model.PlannedControl, error) {
	rows, err := s.queries.Query(ctx, `
		SELECT p.id, p.subject_id, s.name, p.grade, p.weight
		FROM planned_controls p
		JOIN subjects s ON s.id = p.subject_id
		WHERE s.user_id = $1
		ORDER BY p.created_at, p.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PlannedControl, error) {
		var p model.PlannedControl
		err := row.Scan(&p.ID, &p.SubjectID, &p.Subject, &p.Grade, &p.Weight)
		return p, err
	})
}
