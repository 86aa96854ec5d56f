package service

import (
	"context"
	"fmt"
	"log/slog"

	"bmgrades.app/tracker/common/id"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/model"
	"bmgrades.app/tracker/internal/store"
)

type UserService interface {
	// Sync creates the user on first sign-in and refreshes name and email
	// afterwards. bmType only applies to a new user; empty means the default.
	Sync(ctx context.Context, externalID, name string, email *string, bmType string) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
}

type userService struct {
	userStore     store.UserStore
	defaultBMType curriculum.BMType
}

func NewUserService(userStore store.UserStore, defaultBMType curriculum.BMType) UserService {
	return &userService{
		userStore:     userStore,
		defaultBMType: defaultBMType,
	}
}

func (s *userService) Sync(ctx context.Context, externalID, name string, email *string, bmType string) (*model.User, error) {
	bm := s.defaultBMType
	if bmType != "" {
		parsed, err := curriculum.ParseBMType(bmType)
		if err != nil {
			return nil, err
		}
		bm = parsed
	}

	user := &model.User{
		ID:              id.New(),
		ExternalID:      externalID,
		Name:            name,
		Email:           email,
		BMType:          string(bm),
		CurrentSemester: gradebook.DefaultSemester,
		MaturnoteGoal:   gradebook.DefaultMaturnoteGoal,
	}

	if err := s.userStore.Upsert(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"external_id", externalID,
		)
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	slog.InfoContext(ctx, "user synced", "user_id", user.ID)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return user, nil
}
