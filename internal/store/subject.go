package store

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

type subjectStore struct {
	queries db.DBTX
}

func newSubjectStore(queries db.DBTX) SubjectStore {
	return &subjectStore{queries: queries}
}

func (s *subjectStore) GetOrCreate(ctx context.Context, userID int64, name string, newID int64) (int64, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	var id int64
	err := s.queries.QueryRow(ctx, `
		INSERT INTO subjects (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		newID, userID, name,
	).Scan(&id)
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (s *subjectStore) ListByUser(ctx context.Context, userID int64) ([]model.Subject, error) {
	rows, err := s.queries.Query(ctx, `SELECT id, user_id, name FROM subjects WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Subject, error) {
		var sub model.Subject
		err := row.Scan(&sub.ID, &sub.UserID, &sub.Name)
		return sub, err
	})
}
