// Package extraction turns a photographed bulletin or SAL screenshot into a
// validated extraction result, using a vision-language model.
package extraction

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Mode selects what kind of document is being scanned.
type Mode string

const (
	// ModeSAL is a screenshot of the SAL assessment list.
	ModeSAL Mode = "SAL"
	// ModeBulletin is a semester report card.
	ModeBulletin Mode = "Bulletin"
)

// ParseMode accepts a scan type case-insensitively. An empty scan type means
// a bulletin.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bulletin":
		return ModeBulletin, nil
	case "sal":
		return ModeSAL, nil
	default:
		return "", fmt.Errorf("unknown scan type %q", s)
	}
}

// Result is a parsed extraction. Controls is set in SAL mode, Grades and
// Semester in bulletin mode.
type Result struct {
	Mode     Mode
	Controls []Control
	// Grades maps the raw subject label to its grade.
	Grades map[string]float64
	// Semester is the semester printed on the bulletin, if any.
	Semester *int
	// Dropped counts records that failed validation.
	Dropped int
	// Cached is set when the result came from the scan cache.
	Cached bool
}

// Labels returns the bulletin labels in a stable order.
func (r *Result) Labels() []string {
	return slices.Sorted(maps.Keys(r.Grades))
}

// StripFences removes markdown code fences models like to wrap JSON in.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Parse decodes the model's answer for mode.
//
// An {"error": ...} answer yields a *DeclaredError. Anything that is not an
// object carrying the mode's payload ("controls" array for SAL, "grades"
// object for bulletins) yields ErrMalformedResult. Individual records that
// fail validation are dropped and counted in Result.Dropped.
func Parse(mode Mode, text string) (*Result, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(text)), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	if raw, ok := envelope["error"]; ok && string(raw) != "null" {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		return nil, &DeclaredError{Message: msg}
	}

	switch mode {
	case ModeSAL:
		return parseSAL(envelope)
	case ModeBulletin:
		return parseBulletin(envelope)
	default:
		return nil, fmt.Errorf("unknown scan mode %q", mode)
	}
}

func parseSAL(envelope map[string]json.RawMessage) (*Result, error) {
	var controls []json.RawMessage
	raw, ok := envelope["controls"]
	if !ok {
		return nil, fmt.Errorf("%w: missing controls", ErrMalformedResult)
	}
	if err := json.Unmarshal(raw, &controls); err != nil || controls == nil {
		return nil, fmt.Errorf("%w: controls is not an array", ErrMalformedResult)
	}

	res := &Result{Mode: ModeSAL, Controls: make([]Control, 0, len(controls))}
	for _, c := range controls {
		control, ok := decodeControl(c)
		if !ok {
			res.Dropped++
			continue
		}
		res.Controls = append(res.Controls, control)
	}
	return res, nil
}

func parseBulletin(envelope map[string]json.RawMessage) (*Result, error) {
	var grades map[string]json.RawMessage
	raw, ok := envelope["grades"]
	if !ok {
		return nil, fmt.Errorf("%w: missing grades", ErrMalformedResult)
	}
	if err := json.Unmarshal(raw, &grades); err != nil || grades == nil {
		return nil, fmt.Errorf("%w: grades is not an object", ErrMalformedResult)
	}

	res := &Result{Mode: ModeBulletin, Grades: make(map[string]float64, len(grades))}
	for label, g := range grades {
		grade, ok := decodeSemesterGrade(label, g)
		if !ok {
			res.Dropped++
			continue
		}
		res.Grades[label] = grade
	}

	if sem, ok := lenientNumber(envelope["semester"]); ok && sem >= 1 && sem == math.Trunc(sem) {
		s := int(sem)
		res.Semester = &s
	}
	return res, nil
}
