// Package models pkg/models/point.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownValueState = errors.New("unknown value state")
	ErrNotObject         = errors.New("value is not an object")
)

// MeasurementNodeDB is the measurement every node point is written to.
const MeasurementNodeDB = "node_db"

// ValueState tells a reported value apart from an explicit null and from a
// key the radio never reported.
type ValueState uint8

const (
	StatePresent ValueState = iota
	StateNull
	StateAbsent
)

func (s ValueState) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateNull:
		return "null"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Value is a tag or field value together with its state.
type Value struct {
	State ValueState
	Raw   interface{}
}

func Present(v interface{}) Value { return Value{State: StatePresent, Raw: v} }
func Null() Value                 { return Value{State: StateNull} }
func Absent() Value               { return Value{State: StateAbsent} }

// IsPresent reports whether the value carries data.
func (v Value) IsPresent() bool {
	return v.State == StatePresent
}

type valueJSON struct {
	State string      `json:"state"`
	Value interface{} `json:"value,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{State: v.State.String(), Value: v.Raw})
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var w valueJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	switch w.State {
	case "present":
		*v = Present(w.Value)
	case "null":
		*v = Null()
	case "absent":
		*v = Absent()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownValueState, w.State)
	}

	return nil
}

// DataPoint is one time-series record: measurement, timestamp, tags and fields.
// Tags and fields never share a key.
type DataPoint struct {
	Measurement string           `json:"measurement"`
	Timestamp   time.Time        `json:"timestamp"`
	Tags        map[string]Value `json:"tags"`
	Fields      map[string]Value `json:"fields"`
}

// NewDataPoint returns an empty point for measurement at ts.
func NewDataPoint(measurement string, ts time.Time) *DataPoint {
	return &DataPoint{
		Measurement: measurement,
		Timestamp:   ts,
		Tags:        make(map[string]Value),
		Fields:      make(map[string]Value),
	}
}

// SetTag sets a tag and drops any field of the same name.
func (p *DataPoint) SetTag(key string, v Value) *DataPoint {
	delete(p.Fields, key)
	p.Tags[key] = v

	return p
}

// SetField sets a field and drops any tag of the same name.
func (p *DataPoint) SetField(key string, v Value) *DataPoint {
	delete(p.Tags, key)
	p.Fields[key] = v

	return p
}

// PresentTags returns only the tags that carry data.
func (p *DataPoint) PresentTags() map[string]interface{} {
	return presentOnly(p.Tags)
}

// PresentFields returns only the fields that carry data.
func (p *DataPoint) PresentFields() map[string]interface{} {
	return presentOnly(p.Fields)
}

func presentOnly(values map[string]Value) map[string]interface{} {
	out := make(map[string]interface{}, len(values))

	for k, v := range values {
		if v.IsPresent() {
			out[k] = v.Raw
		}
	}

	return out
}
