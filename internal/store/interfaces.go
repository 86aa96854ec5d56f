package store

import (
	"context"

	"bmgrades.app/tracker/internal/model"
)

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	// Upsert inserts the user or refreshes name and email of the row with the
	// same external id. user is overwritten with the stored row.
	Upsert(ctx context.Context, user *model.User) error
	UpdateSettings(ctx context.Context, user *model.User) error
}

// SubjectStore defines the contract for subject data access
type SubjectStore interface {
	// GetOrCreate returns the id of the user's subject with the given name,
	// inserting it with newID when it does not exist yet.
	GetOrCreate(ctx context.Context, userID int64, name string, newID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Subject, error)
}

// GradeStore defines the contract for recorded grade data access
type GradeStore interface {
	Create(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, userID, id int64) error
	ListByUserAndSemester(ctx context.Context, userID int64, semester int) ([]model.Grade, error)
}

// SemesterGradeStore defines the contract for finalized semester grades
type SemesterGradeStore interface {
	Upsert(ctx context.Context, subjectID int64, semester int, grade float64) error
	ListByUser(ctx context.Context, userID int64) ([]model.SemesterGrade, error)
}

// PlanStore defines the contract for planned control data access
type PlanStore interface {
	Create(ctx context.Context, plan *model.PlannedControl) error
	Delete(ctx context.Context, userID, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.PlannedControl, error)
}

// SubjectValueStore stores one scalar per subject. It backs both subject goals
// and simulated exam grades.
type SubjectValueStore interface {
	Upsert(ctx context.Context, subjectID int64, value float64) error
	Delete(ctx context.Context, userID int64, subject string) error
	ListByUser(ctx context.Context, userID int64) ([]model.SubjectValue, error)
}
