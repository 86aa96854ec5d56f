package dto

import (
	"encoding/json"
	"fmt"
	"strconv"

	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/grading"
)

// Weight is a grade weight as typed by the user: a JSON number, or a string
// such as "1/2", "50%" or "1.5".
type Weight struct {
	Value   float64
	Display string
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := grading.ParseWeight(s)
		if err != nil {
			return err
		}
		*w = Weight{Value: v, Display: s}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", grading.ErrInvalidWeight, data)
	}
	v, err := grading.WeightFromNumber(n)
	if err != nil {
		return err
	}
	*w = Weight{Value: v, Display: strconv.FormatFloat(n, 'f', -1, 64)}
	return nil
}

type AddGradeRequest struct {
	Subject string  `json:"subject" binding:"required,max=100"`
	Grade   float64 `json:"grade" binding:"required,gte=1,lte=6"`
	Weight  *Weight `json:"weight" binding:"required"`
	Date    string  `json:"date,omitempty" binding:"max=32"`
	Name    string  `json:"name,omitempty" binding:"max=200"`
}

type SemesterGradesRequest struct {
	Semester int                `json:"semester" binding:"required,min=1"`
	Grades   map[string]float64 `json:"grades" binding:"required,min=1,dive,keys,min=1,max=100,endkeys,gte=1,lte=6"`
}

type AddPlanRequest struct {
	Subject string  `json:"subject" binding:"required,max=100"`
	Grade   float64 `json:"grade" binding:"required,gte=1,lte=6"`
	Weight  *Weight `json:"weight" binding:"required"`
}

type SubjectGoalRequest struct {
	Subject string  `json:"subject" binding:"required,max=100"`
	Goal    float64 `json:"goal" binding:"required,gte=1,lte=6"`
}

// ExamGradeRequest takes any grade; values outside the scale are clamped.
type ExamGradeRequest struct {
	Subject string  `json:"subject" binding:"required,max=100"`
	Grade   float64 `json:"grade" binding:"required"`
}

type MutationResponse struct {
	State     gradebook.State           `json:"state"`
	Persisted bool                      `json:"persisted"`
	Entry     *gradebook.GradeEntry     `json:"entry,omitempty"`
	Plan      *gradebook.PlannedControl `json:"plan,omitempty"`
}
