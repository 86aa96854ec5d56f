package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"bmgrades.app/tracker/common/id"
	"bmgrades.app/tracker/common/logger"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/model"
	"bmgrades.app/tracker/internal/reconcile"
	"bmgrades.app/tracker/internal/snapshot"
	"bmgrades.app/tracker/internal/store"
)

// GradeInput is a manually entered assessment. Weight is already parsed.
type GradeInput struct {
	Grade         float64
	Weight        float64
	DisplayWeight string
	Date          string
	Name          string
}

// Mutation is the outcome of a gradebook change. State is the new gradebook.
// Persisted is false when the database write failed; the snapshot keeps the
// change regardless.
type Mutation struct {
	State     gradebook.State
	Persisted bool

	Entry    *gradebook.GradeEntry
	Plan     *gradebook.PlannedControl
	SAL      *reconcile.SALOutcome
	Bulletin *reconcile.BulletinOutcome
}

type GradebookService interface {
	State(ctx context.Context, userID int64) (gradebook.State, error)
	Summary(ctx context.Context, userID int64, nextWeight float64) (gradebook.Summary, error)

	AddGrade(ctx context.Context, userID int64, subject string, in GradeInput) (*Mutation, error)
	RemoveGrade(ctx context.Context, userID int64, subject string, gradeID int64) (*Mutation, error)
	SetSemesterGrades(ctx context.Context, userID int64, semester int, grades map[string]float64) (*Mutation, error)
	AddPlan(ctx context.Context, userID int64, subject string, grade, weight float64) (*Mutation, error)
	RemovePlan(ctx context.Context, userID int64, subject string, planID int64) (*Mutation, error)
	SetSubjectGoal(ctx context.Context, userID int64, subject string, goal float64) (*Mutation, error)
	ClearSubjectGoal(ctx context.Context, userID int64, subject string) (*Mutation, error)
	SetExamGrade(ctx context.Context, userID int64, subject string, grade float64) (*Mutation, error)
	ClearExamGrade(ctx context.Context, userID int64, subject string) (*Mutation, error)
	SetBMType(ctx context.Context, userID int64, bmType curriculum.BMType) (*Mutation, error)
	SetSemester(ctx context.Context, userID int64, semester int) (*Mutation, error)
	SetMaturnoteGoal(ctx context.Context, userID int64, goal float64) (*Mutation, error)

	// ApplySAL merges a SAL scan result into the user's current grades.
	ApplySAL(ctx context.Context, userID int64, res *extraction.Result) (*Mutation, error)
	// ApplyBulletin merges a bulletin scan result into the semester grades.
	ApplyBulletin(ctx context.Context, userID int64, res *extraction.Result) (*Mutation, error)
}

// persistFunc writes one change to the database inside a transaction.
type persistFunc func(ctx context.Context, stores StoreProvider) error

// changeFunc computes the next state from the current one. A nil persistFunc
// means there is nothing to write.
type changeFunc func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error)

type gradebookService struct {
	catalog       *curriculum.Catalog
	snapshots     snapshot.Store
	stores        StoreProvider
	txRunner      TxRunner
	defaultBMType curriculum.BMType
	locks         *userLocks
}

func NewGradebookService(
	catalog *curriculum.Catalog,
	snapshots snapshot.Store,
	stores StoreProvider,
	txRunner TxRunner,
	defaultBMType curriculum.BMType,
) GradebookService {
	return &gradebookService{
		catalog:       catalog,
		snapshots:     snapshots,
		stores:        stores,
		txRunner:      txRunner,
		defaultBMType: defaultBMType,
		locks:         newUserLocks(),
	}
}

func (s *gradebookService) State(ctx context.Context, userID int64) (gradebook.State, error) {
	return s.load(ctx, userID)
}

func (s *gradebookService) Summary(ctx context.Context, userID int64, nextWeight float64) (gradebook.Summary, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return gradebook.Summary{}, err
	}
	cur, err := s.catalog.Get(state.BMType)
	if err != nil {
		return gradebook.Summary{}, err
	}
	return state.Summarize(cur, nextWeight), nil
}

func (s *gradebookService) AddGrade(ctx context.Context, userID int64, subject string, in GradeInput) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	entry := gradebook.GradeEntry{
		ID:            id.New(),
		Grade:         in.Grade,
		Weight:        in.Weight,
		DisplayWeight: in.DisplayWeight,
		Date:          in.Date,
		Name:          in.Name,
		Source:        gradebook.SourceManual,
	}

	m, err := s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.AddGrade(cur, subject, entry)
		if err != nil {
			return state, nil, err
		}
		semester := next.CurrentSemester
		return next, func(ctx context.Context, stores StoreProvider) error {
			return createGrade(ctx, stores, userID, subject, semester, entry)
		}, nil
	})
	if err != nil {
		return nil, err
	}
	m.Entry = &entry
	return m, nil
}

func (s *gradebookService) RemoveGrade(ctx context.Context, userID int64, subject string, gradeID int64) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, _, err := state.RemoveGrade(subject, gradeID)
		if err != nil {
			return state, nil, err
		}
		return next, func(ctx context.Context, stores StoreProvider) error {
			return ignoreNotFound(stores.Grades().Delete(ctx, userID, gradeID))
		}, nil
	})
}

func (s *gradebookService) SetSemesterGrades(ctx context.Context, userID int64, semester int, grades map[string]float64) (*Mutation, error) {
	ctx = withSemester(ctx, semester)
	return s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next := state
		for _, subject := range slices.Sorted(maps.Keys(grades)) {
			var err error
			next, err = next.SetSemesterGrade(cur, subject, semester, grades[subject])
			if err != nil {
				return state, nil, err
			}
		}
		return next, func(ctx context.Context, stores StoreProvider) error {
			return upsertSemesterGrades(ctx, stores, userID, semester, grades)
		}, nil
	})
}

func (s *gradebookService) AddPlan(ctx context.Context, userID int64, subject string, grade, weight float64) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	plan := gradebook.PlannedControl{ID: id.New(), Grade: grade, Weight: weight}

	m, err := s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.AddPlan(cur, subject, plan)
		if err != nil {
			return state, nil, err
		}
		return next, func(ctx context.Context, stores StoreProvider) error {
			subjectID, err := subjectID(ctx, stores, userID, subject)
			if err != nil {
				return err
			}
			return stores.Plans().Create(ctx, &model.PlannedControl{
				ID:        plan.ID,
				SubjectID: subjectID,
				Grade:     plan.Grade,
				Weight:    plan.Weight,
			})
		}, nil
	})
	if err != nil {
		return nil, err
	}
	m.Plan = &plan
	return m, nil
}

func (s *gradebookService) RemovePlan(ctx context.Context, userID int64, subject string, planID int64) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.RemovePlan(subject, planID)
		if err != nil {
			return state, nil, err
		}
		return next, func(ctx context.Context, stores StoreProvider) error {
			return ignoreNotFound(stores.Plans().Delete(ctx, userID, planID))
		}, nil
	})
}

func (s *gradebookService) SetSubjectGoal(ctx context.Context, userID int64, subject string, goal float64) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.SetSubjectGoal(cur, subject, goal)
		if err != nil {
			return state, nil, err
		}
		return next, upsertSubjectValue(userID, subject, goal, StoreProvider.SubjectGoals), nil
	})
}

func (s *gradebookService) ClearSubjectGoal(ctx context.Context, userID int64, subject string) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		return state.ClearSubjectGoal(subject), func(ctx context.Context, stores StoreProvider) error {
			return stores.SubjectGoals().Delete(ctx, userID, subject)
		}, nil
	})
}

func (s *gradebookService) SetExamGrade(ctx context.Context, userID int64, subject string, grade float64) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.SetExamGrade(cur, subject, grade)
		if err != nil {
			return state, nil, err
		}
		// Persist the clamped value.
		return next, upsertSubjectValue(userID, subject, next.ExamGrades[subject], StoreProvider.ExamGrades), nil
	})
}

func (s *gradebookService) ClearExamGrade(ctx context.Context, userID int64, subject string) (*Mutation, error) {
	ctx = withSubject(ctx, subject)
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		return state.ClearExamGrade(subject), func(ctx context.Context, stores StoreProvider) error {
			return stores.ExamGrades().Delete(ctx, userID, subject)
		}, nil
	})
}

func (s *gradebookService) SetBMType(ctx context.Context, userID int64, bmType curriculum.BMType) (*Mutation, error) {
	if _, err := s.catalog.Get(bmType); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next := state.SetBMType(bmType)
		return next, updateSettings(userID, next), nil
	})
}

func (s *gradebookService) SetSemester(ctx context.Context, userID int64, semester int) (*Mutation, error) {
	return s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.SetCurrentSemester(cur, semester)
		if err != nil {
			return state, nil, err
		}
		return next, updateSettings(userID, next), nil
	})
}

func (s *gradebookService) SetMaturnoteGoal(ctx context.Context, userID int64, goal float64) (*Mutation, error) {
	return s.mutate(ctx, userID, func(state gradebook.State, _ *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		next, err := state.SetMaturnoteGoal(goal)
		if err != nil {
			return state, nil, err
		}
		return next, updateSettings(userID, next), nil
	})
}

func (s *gradebookService) ApplySAL(ctx context.Context, userID int64, res *extraction.Result) (*Mutation, error) {
	var outcome reconcile.SALOutcome

	m, err := s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		var err error
		outcome, err = reconcile.SAL(res, state.Subjects, cur, id.New)
		if err != nil {
			return state, nil, err
		}
		if len(outcome.Added) == 0 {
			return state, nil, nil
		}

		semester := state.CurrentSemester
		added := outcome.Added
		return state.WithSubjects(outcome.Subjects), func(ctx context.Context, stores StoreProvider) error {
			for _, a := range added {
				if err := createGrade(ctx, stores, userID, a.Subject, semester, a.Entry); err != nil {
					return err
				}
			}
			return nil
		}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "SAL scan reconciled",
		"added", len(outcome.Added),
		"duplicates", outcome.Duplicates,
		"unmatched", outcome.Unmatched,
		"persisted", m.Persisted)

	m.SAL = &outcome
	return m, nil
}

func (s *gradebookService) ApplyBulletin(ctx context.Context, userID int64, res *extraction.Result) (*Mutation, error) {
	var outcome reconcile.BulletinOutcome

	m, err := s.mutate(ctx, userID, func(state gradebook.State, cur *curriculum.Curriculum) (gradebook.State, persistFunc, error) {
		var err error
		outcome, err = reconcile.Bulletin(res, state.SemesterGrades, cur, state.CurrentSemester)
		if err != nil {
			return state, nil, err
		}
		if !cur.ValidSemester(outcome.Semester) {
			return state, nil, fmt.Errorf("%w: bulletin semester %d", gradebook.ErrInvalidSemester, outcome.Semester)
		}
		if len(outcome.Applied) == 0 {
			return state, nil, nil
		}

		semester, applied := outcome.Semester, outcome.Applied
		return state.WithSemesterGrades(outcome.SemesterGrades), func(ctx context.Context, stores StoreProvider) error {
			return upsertSemesterGrades(withSemester(ctx, semester), stores, userID, semester, applied)
		}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(withSemester(ctx, outcome.Semester), "bulletin scan reconciled",
		"applied", len(outcome.Applied),
		"unmatched", outcome.Unmatched,
		"persisted", m.Persisted)

	m.Bulletin = &outcome
	return m, nil
}

// mutate applies fn to the user's gradebook under the user's lock. The new
// state is written to the snapshot first; a failed database write is logged
// and reported through Mutation.Persisted without undoing the snapshot.
func (s *gradebookService) mutate(ctx context.Context, userID int64, fn changeFunc) (*Mutation, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    &userID,
		Component: "tracker.gradebook",
	})

	unlock := s.locks.Lock(userID)
	defer unlock()

	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cur, err := s.catalog.Get(state.BMType)
	if err != nil {
		return nil, err
	}

	next, persist, err := fn(state, cur)
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Save(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	m := &Mutation{State: next, Persisted: true}
	if persist == nil {
		return m, nil
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		return persist(ctx, stores)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist gradebook change", "error", err)
		m.Persisted = false
	}
	return m, nil
}

func withSubject(ctx context.Context, subject string) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{Subject: &subject})
}

func withSemester(ctx context.Context, semester int) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{Semester: &semester})
}

// load returns the user's snapshot, rebuilding it from the database when none
// was saved yet.
func (s *gradebookService) load(ctx context.Context, userID int64) (gradebook.State, error) {
	state, ok, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		return gradebook.State{}, fmt.Errorf("loading snapshot: %w", err)
	}
	if ok {
		return state, nil
	}

	state, err = s.hydrate(ctx, userID)
	if err != nil {
		return gradebook.State{}, err
	}
	if err := s.snapshots.Save(ctx, userID, state); err != nil {
		slog.WarnContext(ctx, "failed to save hydrated snapshot", "error", err, "user_id", userID)
	}
	return state, nil
}

func (s *gradebookService) hydrate(ctx context.Context, userID int64) (gradebook.State, error) {
	user, err := s.stores.Users().GetByID(ctx, userID)
	if err != nil {
		return gradebook.State{}, fmt.Errorf("getting user %d: %w", userID, err)
	}

	var rows gradebookRows
	rows.user = user
	if rows.grades, err = s.stores.Grades().ListByUserAndSemester(ctx, userID, user.CurrentSemester); err != nil {
		return gradebook.State{}, fmt.Errorf("listing grades: %w", err)
	}
	if rows.semesterGrades, err = s.stores.SemesterGrades().ListByUser(ctx, userID); err != nil {
		return gradebook.State{}, fmt.Errorf("listing semester grades: %w", err)
	}
	if rows.plans, err = s.stores.Plans().ListByUser(ctx, userID); err != nil {
		return gradebook.State{}, fmt.Errorf("listing plans: %w", err)
	}
	if rows.goals, err = s.stores.SubjectGoals().ListByUser(ctx, userID); err != nil {
		return gradebook.State{}, fmt.Errorf("listing subject goals: %w", err)
	}
	if rows.examGrades, err = s.stores.ExamGrades().ListByUser(ctx, userID); err != nil {
		return gradebook.State{}, fmt.Errorf("listing exam grades: %w", err)
	}

	slog.InfoContext(ctx, "gradebook rebuilt from database",
		"user_id", userID,
		"grades", len(rows.grades),
		"semester_grades", len(rows.semesterGrades))
	return rows.state(s.defaultBMType), nil
}

func subjectID(ctx context.Context, stores StoreProvider, userID int64, name string) (int64, error) {
	sid, err := stores.Subjects().GetOrCreate(ctx, userID, name, id.New())
	if err != nil {
		return 0, fmt.Errorf("getting subject %q: %w", name, err)
	}
	return sid, nil
}

func createGrade(ctx context.Context, stores StoreProvider, userID int64, subject string, semester int, e gradebook.GradeEntry) error {
	sid, err := subjectID(ctx, stores, userID, subject)
	if err != nil {
		return err
	}
	return stores.Grades().Create(ctx, &model.Grade{
		ID:            e.ID,
		SubjectID:     sid,
		Semester:      semester,
		Grade:         e.Grade,
		Weight:        e.Weight,
		DisplayWeight: optional(e.DisplayWeight),
		ControlName:   optional(e.Name),
		ControlDate:   optional(e.Date),
		ControlKey:    optional(e.ControlKey),
		Source:        model.GradeSource(e.Source),
	})
}

func upsertSemesterGrades(ctx context.Context, stores StoreProvider, userID int64, semester int, grades map[string]float64) error {
	for _, subject := range slices.Sorted(maps.Keys(grades)) {
		sid, err := subjectID(ctx, stores, userID, subject)
		if err != nil {
			return err
		}
		if err := stores.SemesterGrades().Upsert(ctx, sid, semester, grades[subject]); err != nil {
			return fmt.Errorf("upserting semester grade %q/%d: %w", subject, semester, err)
		}
	}
	return nil
}

func upsertSubjectValue(userID int64, subject string, value float64, table func(StoreProvider) store.SubjectValueStore) persistFunc {
	return func(ctx context.Context, stores StoreProvider) error {
		sid, err := subjectID(ctx, stores, userID, subject)
		if err != nil {
			return err
		}
		return table(stores).Upsert(ctx, sid, value)
	}
}

func updateSettings(userID int64, state gradebook.State) persistFunc {
	return func(ctx context.Context, stores StoreProvider) error {
		return stores.Users().UpdateSettings(ctx, &model.User{
			ID:              userID,
			BMType:          string(state.BMType),
			CurrentSemester: state.CurrentSemester,
			MaturnoteGoal:   state.MaturnoteGoal,
		})
	}
}

// ignoreNotFound treats a row that was never persisted as already deleted.
func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
