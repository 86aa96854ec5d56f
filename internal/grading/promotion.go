package grading

import (
	"math"
	"slices"
)

// BM1 promotion thresholds.
const (
	promotionMinAverage      = 4.0
	promotionMaxDeficit      = 2.0
	promotionMaxInsufficient = 2
)

// PromotionConditions reports each BM1 promotion condition on its own.
type PromotionConditions struct {
	AverageOK      bool `json:"average_ok"`
	DeficitOK      bool `json:"deficit_ok"`
	InsufficientOK bool `json:"insufficient_ok"`
}

// PromotionStatus is the outcome of EvaluatePromotion. All fields are nil when
// no grade counted toward promotion.
type PromotionStatus struct {
	Average           *float64             `json:"average"`
	Deficit           *float64             `json:"deficit"`
	InsufficientCount *int                 `json:"insufficient_count"`
	IsPromoted        *bool                `json:"is_promoted"`
	Conditions        *PromotionConditions `json:"conditions,omitempty"`
}

// EvaluatePromotion applies the BM1 semester promotion rule to one grade per
// subject. Subjects for which excluded returns true do not count.
//
// Grades are summed in subject order so the result does not depend on map
// iteration order.
func EvaluatePromotion(grades map[string]float64, excluded func(subject string) bool) PromotionStatus {
	subjects := make([]string, 0, len(grades))
	for s := range grades {
		if excluded != nil && excluded(s) {
			continue
		}
		subjects = append(subjects, s)
	}
	if len(subjects) == 0 {
		return PromotionStatus{}
	}
	slices.Sort(subjects)

	var sum, deficit float64
	insufficient := 0
	for _, s := range subjects {
		g := grades[s]
		sum += g
		if g < PassingGrade {
			deficit += PassingGrade - g
			insufficient++
		}
	}

	average := RoundTenth(sum / float64(len(subjects)))
	cond := PromotionConditions{
		AverageOK:      average >= promotionMinAverage,
		DeficitOK:      deficit <= promotionMaxDeficit,
		InsufficientOK: insufficient <= promotionMaxInsufficient,
	}
	promoted := cond.AverageOK && cond.DeficitOK && cond.InsufficientOK
	roundedDeficit := math.Round(deficit*10) / 10

	return PromotionStatus{
		Average:           &average,
		Deficit:           &roundedDeficit,
		InsufficientCount: &insufficient,
		IsPromoted:        &promoted,
		Conditions:        &cond,
	}
}
