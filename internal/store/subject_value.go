package store

import (
	"context"
	"fmt"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

// subjectValueStore serves tables shaped (subject_id PRIMARY KEY, <column>).
// table and column are fixed by the factory, never user input.
type subjectValueStore struct {
	queries db.DBTX
	table   string
	column  string
}

func newSubjectValueStore(queries db.DBTX, table, column string) SubjectValueStore {
	return &subjectValueStore{queries: queries, table: table, column: column}
}

func (s *subjectValueStore) Upsert(ctx context.Context, subjectID int64, value float64) error {
	_, err := s.queries.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (subject_id, %[2]s)
		VALUES ($1, $2)
		ON CONFLICT (subject_id) DO UPDATE SET %[2]s = EXCLUDED.%[2]s`,
		s.table, s.column),
		subjectID, value,
	)
	return mapErr(err)
}

func (s *subjectValueStore) Delete(ctx context.Context, userID int64, subject string) error {
	_, err := s.queries.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s v
		USING subjects s
		WHERE v.subject_id = s.id AND s.user_id = $1 AND s.name = $2`,
		s.table),
		userID, subject,
	)
	return err
}

func (s *subjectValueStore) ListByUser(ctx context.Context, userID int64) ([]model.SubjectValue, error) {
	rows, err := s.queries.Query(ctx, fmt.Sprintf(`
		SELECT v.subject_id, s.name, v.%s
		FROM %s v
		JOIN subjects s ON s.id = v.subject_id
		WHERE s.user_id = $1
		ORDER BY s.name`,
		s.column, s.table),
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SubjectValue, error) {
		var v model.SubjectValue
		err := row.Scan(&v.SubjectID, &v.Subject, &v.Value)
		return v, err
	})
}
