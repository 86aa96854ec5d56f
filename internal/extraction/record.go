package extraction

import (
	"encoding/json"
	"strconv"

	"bmgrades.app/tracker/internal/grading"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Control is one assessment read from a SAL screenshot.
type Control struct {
	Subject string  `json:"subject" validate:"required"`
	Date    string  `json:"date" validate:"max=32"`
	Name    string  `json:"name" validate:"max=200"`
	Grade   float64 `json:"grade" validate:"gte=1,lte=6"`
}

type rawControl struct {
	Subject string          `json:"subject"`
	Date    string          `json:"date"`
	Name    string          `json:"name"`
	Grade   json.RawMessage `json:"grade"`
}

type semesterGrade struct {
	Label string  `validate:"required"`
	Grade float64 `validate:"gte=1,lte=6"`
}

func decodeControl(raw json.RawMessage) (Control, bool) {
	var rc rawControl
	if err := json.Unmarshal(raw, &rc); err != nil {
		return Control{}, false
	}
	grade, ok := lenientNumber(rc.Grade)
	if !ok {
		return Control{}, false
	}
	c := Control{Subject: rc.Subject, Date: rc.Date, Name: rc.Name, Grade: grade}
	if err := validate.Struct(c); err != nil {
		return Control{}, false
	}
	return c, true
}

func decodeSemesterGrade(label string, raw json.RawMessage) (float64, bool) {
	grade, ok := lenientNumber(raw)
	if !ok {
		return 0, false
	}
	if err := validate.Struct(semesterGrade{Label: label, Grade: grade}); err != nil {
		return 0, false
	}
	return grade, true
}

// lenientNumber reads a JSON number, or a string holding one the way
// parseFloat would ("5.5", "5.5 (gut)").
func lenientNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v, err := strconv.ParseFloat(n.String(), 64)
		return v, err == nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	return grading.ParseDecimal(s)
}
