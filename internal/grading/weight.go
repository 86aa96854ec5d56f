package grading

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidWeight is returned when a weight does not resolve to a finite positive number.
var ErrInvalidWeight = errors.New("invalid weight")

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseWeight normalizes a weight written as a fraction ("1/2"), a percentage
// ("50%") or a decimal ("1.5") into a multiplier.
//
// Each numeric part follows parseFloat prefix semantics: leading whitespace is
// skipped, the longest numeric prefix is read and trailing garbage is ignored.
func ParseWeight(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	var (
		v  float64
		ok bool
	)
	switch {
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		num, nok := ParseDecimal(parts[0])
		den, dok := ParseDecimal(parts[1])
		if nok && dok && den != 0 {
			v, ok = num/den, true
		}
	case strings.Contains(s, "%"):
		var n float64
		n, ok = ParseDecimal(strings.Replace(s, "%", "", 1))
		v = n / 100
	default:
		v, ok = ParseDecimal(s)
	}

	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
	}
	return WeightFromNumber(v)
}

// WeightFromNumber validates a weight that is already numeric.
func WeightFromNumber(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWeight, v)
	}
	return v, nil
}

// ParseDecimal reads the longest leading decimal number of s, the way
// JavaScript's parseFloat does. It reports false when s has no numeric prefix.
func ParseDecimal(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
