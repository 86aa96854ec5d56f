package model

import "time"

type GradeSource string

const (
	GradeSourceManual GradeSource = "manual"
	GradeSourceSAL    GradeSource = "SAL"
)

// Subject is a user's subject row. Subjects are created on first use.
type Subject struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type Grade struct {
	ID            int64       `json:"id"`
	SubjectID     int64       `json:"subject_id"`
	Subject       string      `json:"subject"`
	Semester      int         `json:"semester"`
	Grade         float64     `json:"grade"`
	Weight        float64     `json:"weight"`
	DisplayWeight *string     `json:"display_weight,omitempty"`
	ControlName   *string     `json:"control_name,omitempty"`
	ControlDate   *string     `json:"control_date,omitempty"`
	ControlKey    *string     `json:"control_key,omitempty"`
	Source        GradeSource `json:"source"`
	CreatedAt     time.Time   `json:"created_at"`
}

type SemesterGrade struct {
	SubjectID int64   `json:"subject_id"`
	Subject   string  `json:"subject"`
	Semester  int     `json:"semester"`
	Grade     float64 `json:"grade"`
}

type PlannedControl struct {
	ID        int64   `json:"id"`
	SubjectID int64   `json:"subject_id"`
	Subject   string  `json:"subject"`
	Grade     float64 `json:"grade"`
	Weight    float64 `json:"weight"`
}

// SubjectValue is a per-subject scalar: a goal or a simulated exam grade.
type SubjectValue struct {
	SubjectID int64   `json:"subject_id"`
	Subject   string  `json:"subject"`
	Value     float64 `json:"value"`
}
