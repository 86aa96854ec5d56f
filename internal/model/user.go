package model

import "time"

type User struct {
	ID int64 `json:"id"`
	// ExternalID is the identity provider's subject for the user.
	ExternalID      string    `json:"external_id"`
	Name            string    `json:"name"`
	Email           *string   `json:"email,omitempty"`
	BMType          string    `json:"bm_type"`
	CurrentSemester int       `json:"current_semester"`
	MaturnoteGoal   float64   `json:"maturnote_goal"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
