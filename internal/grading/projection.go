package grading

import (
	"encoding/json"
	"fmt"
)

// ProjectionStatus classifies a projected grade against the grading scale.
type ProjectionStatus int

const (
	// ProjectionUndefined means there was nothing to project from.
	ProjectionUndefined ProjectionStatus = iota
	ProjectionInRange
	// ProjectionBelowRange means the goal is already reached (x < 1).
	ProjectionBelowRange
	// ProjectionAboveRange means the goal cannot be reached (x > 6).
	ProjectionAboveRange
)

func (s ProjectionStatus) String() string {
	switch s {
	case ProjectionInRange:
		return "in_range"
	case ProjectionBelowRange:
		return "below_range"
	case ProjectionAboveRange:
		return "above_range"
	default:
		return "undefined"
	}
}

func (s ProjectionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProjectionStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "in_range":
		*s = ProjectionInRange
	case "below_range":
		*s = ProjectionBelowRange
	case "above_range":
		*s = ProjectionAboveRange
	case "undefined", "":
		*s = ProjectionUndefined
	default:
		return fmt.Errorf("unknown projection status %q", string(b))
	}
	return nil
}

// Projection is a required grade together with how to read it.
type Projection struct {
	Grade  float64
	Status ProjectionStatus
}

func newProjection(x float64) Projection {
	status := ProjectionInRange
	switch {
	case x < MinGrade:
		status = ProjectionBelowRange
	case x > MaxGrade:
		status = ProjectionAboveRange
	}
	return Projection{Grade: x, Status: status}
}

// Defined reports whether the projection carries a grade.
func (p Projection) Defined() bool {
	return p.Status != ProjectionUndefined
}

// MarshalJSON renders an undefined projection with a null grade.
func (p Projection) MarshalJSON() ([]byte, error) {
	type wire struct {
		Grade  *float64         `json:"grade"`
		Status ProjectionStatus `json:"status"`
	}
	w := wire{Status: p.Status}
	if p.Defined() {
		g := p.Grade
		w.Grade = &g
	}
	return json.Marshal(w)
}
