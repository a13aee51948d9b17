package ramendb

import (
	"math"
	"strconv"
	"strings"
)

// countSuffixes are unit glyphs trailing metadata counts, stripped in order:
// reviews (件), people (人), points (点), rank (位).
var countSuffixes = []string{"件", "人", "点", "位"}

// NumericOrPassthrough coerces s to an integer, else a float, else keeps
// the original string.
func NumericOrPassthrough(s string) Value {
	if v, ok := parseInt(s); ok {
		return v
	}
	if v, ok := parseFloat(s); ok {
		return v
	}
	return TextValue(s)
}

// IntOrPassthrough coerces s to an integer or keeps the original string.
func IntOrPassthrough(s string) Value {
	if v, ok := parseInt(s); ok {
		return v
	}
	return TextValue(s)
}

// FloatOrPassthrough coerces s to a float or keeps the original string.
func FloatOrPassthrough(s string) Value {
	if v, ok := parseFloat(s); ok {
		return v
	}
	return TextValue(s)
}

func parseInt(s string) (Value, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Value{}, false
	}
	return IntValue(i), true
}

func parseFloat(s string) (Value, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return FloatValue(f), true
}

// TrimNonEmpty trims every line and drops the ones left empty.
func TrimNonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// StripCountSuffix removes thousands separators and trailing unit glyphs
// from a count such as "1,234件". The bool is false when nothing is left.
func StripCountSuffix(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	for _, suffix := range countSuffixes {
		s = strings.TrimRight(s, suffix)
	}
	return s, s != ""
}
