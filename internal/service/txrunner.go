package service

import (
	"context"

	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Users() store.UserStore
	Subjects() store.SubjectStore
	Grades() store.GradeStore
	SemesterGrades() store.SemesterGradeStore
	Plans() store.PlanStore
	SubjectGoals() store.SubjectValueStore
	ExamGrades() store.SubjectValueStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q db.DBTX) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
