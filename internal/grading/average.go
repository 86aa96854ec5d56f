// Package grading implements the BM grading rules: weighted and semester
// averages, Erfahrungsnote, required-grade projections, Maturnote blending and
// the BM1 promotion rule. Every function is pure.
package grading

import (
	"maps"
	"math"
	"slices"
)

// Swiss grading scale.
const (
	MinGrade     = 1.0
	MaxGrade     = 6.0
	PassingGrade = 4.0
)

// Entry is the minimal view of a graded assessment needed for averaging.
type Entry struct {
	Grade  float64
	Weight float64
}

// RoundHalf rounds to the nearest half point. Ties round up (4.25 -> 4.5).
func RoundHalf(v float64) float64 {
	return math.Floor(v*2+0.5) / 2
}

// RoundTenth rounds to the nearest tenth, ties up.
func RoundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// WeightedAverage returns Σ(grade·weight)/Σ(weight). ok is false for an empty
// set or a zero total weight.
func WeightedAverage(entries []Entry) (avg float64, ok bool) {
	if len(entries) == 0 {
		return 0, false
	}
	var totalWeight, weightedSum float64
	for _, e := range entries {
		totalWeight += e.Weight
		weightedSum += e.Grade * e.Weight
	}
	if totalWeight <= 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// SemesterAverage is the weighted average rounded to the half point.
func SemesterAverage(entries []Entry) (float64, bool) {
	avg, ok := WeightedAverage(entries)
	if !ok {
		return 0, false
	}
	return RoundHalf(avg), true
}

// Erfahrungsnote is the unweighted mean of a subject's finalized semester
// grades, rounded to the half point.
func Erfahrungsnote(semesterGrades map[int]float64) (float64, bool) {
	if len(semesterGrades) == 0 {
		return 0, false
	}
	semesters := slices.Sorted(maps.Keys(semesterGrades))

	var sum float64
	for _, sem := range semesters {
		sum += semesterGrades[sem]
	}
	return RoundHalf(sum / float64(len(semesters))), true
}

// SimulatedAverage treats planned controls exactly like recorded entries.
func SimulatedAverage(current, planned []Entry) (float64, bool) {
	all := make([]Entry, 0, len(current)+len(planned))
	all = append(all, current...)
	all = append(all, planned...)
	return WeightedAverage(all)
}

// RequiredGrade solves for the grade x with weight nextWeight that brings the
// weighted average to target:
//
//	x = (target·(Σw + nextWeight) − Σ(g·w)) / nextWeight
//
// The result is not clamped; see Projection.Status.
func RequiredGrade(entries []Entry, target, nextWeight float64) Projection {
	x, ok := solveRequired(entries, target, nextWeight)
	if !ok {
		return Projection{}
	}
	return newProjection(x)
}

// RequiredGradeForRoundedGoal is RequiredGrade over current entries plus plans,
// aimed at the lowest real average that still rounds to goal under half-point
// rounding (goal − 0.25). The result is rounded to one decimal.
func RequiredGradeForRoundedGoal(current, planned []Entry, goal, nextWeight float64) Projection {
	all := make([]Entry, 0, len(current)+len(planned))
	all = append(all, current...)
	all = append(all, planned...)

	x, ok := solveRequired(all, goal-0.25, nextWeight)
	if !ok {
		return Projection{}
	}
	return newProjection(RoundTenth(x))
}

func solveRequired(entries []Entry, target, nextWeight float64) (float64, bool) {
	if len(entries) == 0 || nextWeight <= 0 {
		return 0, false
	}
	var totalWeight, weightedSum float64
	for _, e := range entries {
		totalWeight += e.Weight
		weightedSum += e.Grade * e.Weight
	}
	return (target*(totalWeight+nextWeight) - weightedSum) / nextWeight, true
}
