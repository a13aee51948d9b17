package ramendb

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

// Value kinds.
const (
	ValueText ValueKind = iota
	ValueInt
	ValueFloat
)

// Value is a scalar scraped from page text after numeric coercion.
// Text that could not be coerced is kept verbatim as a ValueText.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{kind: ValueInt, i: i} }

// FloatValue returns a float Value.
func FloatValue(f float64) Value { return Value{kind: ValueFloat, f: f} }

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{kind: ValueText, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer held by v. The bool is false for other kinds.
func (v Value) Int() (int64, bool) { return v.i, v.kind == ValueInt }

// Float returns the float held by v. The bool is false for other kinds.
func (v Value) Float() (float64, bool) { return v.f, v.kind == ValueFloat }

// String returns the textual form of v.
func (v Value) String() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// MarshalJSON encodes numbers as JSON numbers and text as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueInt:
		return json.Marshal(v.i)
	case ValueFloat:
		return json.Marshal(v.f)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON decodes a JSON number or string into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*v = IntValue(i)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return Errorf(EINVALID, "invalid value %s", data)
	}
	*v = FloatValue(f)
	return nil
}
