package gradebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// wireID is an entry id on the wire. Snowflake ids exceed 2^53, so they are
// written as strings. Numbers are still accepted, as older snapshots hold
// millisecond timestamps as plain numbers.
type wireID int64

func (w wireID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(w), 10))), nil
}

func (w *wireID) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*w = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*w = wireID(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return fmt.Errorf("gradebook: invalid id %s", b)
	}
	*w = wireID(int64(f))
	return nil
}

func (e GradeEntry) MarshalJSON() ([]byte, error) {
	type alias GradeEntry
	return json.Marshal(struct {
		ID wireID `json:"id"`
		alias
	}{wireID(e.ID), alias(e)})
}

func (e *GradeEntry) UnmarshalJSON(b []byte) error {
	type alias GradeEntry
	aux := struct {
		ID wireID `json:"id"`
		*alias
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.ID = int64(aux.ID)
	return nil
}

func (p PlannedControl) MarshalJSON() ([]byte, error) {
	type alias PlannedControl
	return json.Marshal(struct {
		ID wireID `json:"id"`
		alias
	}{wireID(p.ID), alias(p)})
}

func (p *PlannedControl) UnmarshalJSON(b []byte) error {
	type alias PlannedControl
	aux := struct {
		ID wireID `json:"id"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = int64(aux.ID)
	return nil
}
