package survey

import (
	"fmt"
	"time"
)

// Value represents a typed cell value with deterministic coercion.
// Garbage text in the export coerces to a missing value, never an error;
// every downstream filter predicate treats missing as a failed comparison.
type Value struct {
	Type         ValueType  `json:"type"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	StringVal    *string    `json:"string_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeString    ValueType = "string"
	ValueTypeMissing   ValueType = "missing"
)

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewStringValue creates a string value; empty strings collapse to missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Float returns the numeric payload. The second return is false for
// missing and non-numeric values.
func (v Value) Float() (float64, bool) {
	if v.IsMissing || v.Type != ValueTypeNumeric || v.NumericVal == nil {
		return 0, false
	}
	return *v.NumericVal, true
}

// Time returns the timestamp payload, false when absent.
func (v Value) Time() (time.Time, bool) {
	if v.IsMissing || v.Type != ValueTypeTimestamp || v.TimestampVal == nil {
		return time.Time{}, false
	}
	return *v.TimestampVal, true
}

// Equals reports whether the value is numeric and equal to target.
// A missing value is never equal to anything.
func (v Value) Equals(target float64) bool {
	f, ok := v.Float()
	return ok && f == target
}

// AtLeast reports whether the value is numeric and >= threshold.
func (v Value) AtLeast(threshold float64) bool {
	f, ok := v.Float()
	return ok && f >= threshold
}

// AtMost reports whether the value is numeric and <= bound.
func (v Value) AtMost(bound float64) bool {
	f, ok := v.Float()
	return ok && f <= bound
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return fmt.Sprintf("%g", *v.NumericVal)
		}
	case ValueTypeTimestamp:
		if v.TimestampVal != nil {
			return v.TimestampVal.Format(time.RFC3339)
		}
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeMissing:
		return "<missing>"
	}
	return "<invalid>"
}
