package dto

import (
	"time"

	"bmgrades.app/tracker/internal/model"
)

type SyncUserRequest struct {
	ExternalID string  `json:"external_id" binding:"required,min=1,max=255"`
	Name       string  `json:"name" binding:"max=255"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	BMType     string  `json:"bm_type,omitempty" binding:"omitempty,max=8"`
}

type UserResponse struct {
	ID              int64     `json:"id,string"`
	ExternalID      string    `json:"external_id"`
	Name            string    `json:"name"`
	Email           *string   `json:"email,omitempty"`
	BMType          string    `json:"bm_type"`
	CurrentSemester int       `json:"current_semester"`
	MaturnoteGoal   float64   `json:"maturnote_goal"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		ExternalID:      u.ExternalID,
		Name:            u.Name,
		Email:           u.Email,
		BMType:          u.BMType,
		CurrentSemester: u.CurrentSemester,
		MaturnoteGoal:   u.MaturnoteGoal,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type SetBMTypeRequest struct {
	BMType string `json:"bm_type" binding:"required,max=8"`
}

type SetSemesterRequest struct {
	Semester int `json:"semester" binding:"required,min=1"`
}

type SetMaturnoteGoalRequest struct {
	Goal float64 `json:"goal" binding:"required,gte=1,lte=6"`
}
