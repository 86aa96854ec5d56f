package store

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, external_id, name, email, bm_type, current_semester, maturnote_goal, created_at, updated_at`

type userStore struct {
	queries db.DBTX
}

func newUserStore(queries db.DBTX) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.queries.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	row := s.queries.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return scanUser(row)
}

func (s *userStore) Upsert(ctx context.Context, user *model.User) error {
	row := s.queries.QueryRow(ctx, `
		INSERT INTO users (id, external_id, name, email, bm_type, current_semester, maturnote_goal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = now()
		RETURNING `+userColumns,
		user.ID, user.ExternalID, user.Name, user.Email, user.BMType, user.CurrentSemester, user.MaturnoteGoal,
	)
	stored, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *userStore) UpdateSettings(ctx context.Context, user *model.User) error {
	row := s.queries.QueryRow(ctx, `
		UPDATE users
		SET bm_type = $2, current_semester = $3, maturnote_goal = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.BMType, user.CurrentSemester, user.MaturnoteGoal,
	)
	stored, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.ExternalID, &u.Name, &u.Email,
		&u.BMType, &u.CurrentSemester, &u.MaturnoteGoal,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
