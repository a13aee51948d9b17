package ramendb_test

import (
	"testing"

	"github.com/fwojciec/ramendb"
	"github.com/stretchr/testify/assert"
)

func TestNumericOrPassthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  ramendb.Value
	}{
		{name: "integer", input: "90", want: ramendb.IntValue(90)},
		{name: "float", input: "98.123", want: ramendb.FloatValue(98.123)},
		{name: "surrounding whitespace", input: " 42 ", want: ramendb.IntValue(42)},
		{name: "non-numeric text is kept verbatim", input: "-", want: ramendb.TextValue("-")},
		{name: "empty string", input: "", want: ramendb.TextValue("")},
		{name: "NaN is not a number here", input: "NaN", want: ramendb.TextValue("NaN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ramendb.NumericOrPassthrough(tt.input))
		})
	}
}

func TestIntOrPassthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ramendb.IntValue(1234), ramendb.IntOrPassthrough("1234"))
	assert.Equal(t, ramendb.TextValue("4.5"), ramendb.IntOrPassthrough("4.5"))
}

func TestFloatOrPassthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ramendb.FloatValue(4.5), ramendb.FloatOrPassthrough("4.5"))
	assert.Equal(t, ramendb.FloatValue(4), ramendb.FloatOrPassthrough("4"))
	assert.Equal(t, ramendb.TextValue("n/a"), ramendb.FloatOrPassthrough("n/a"))
}

func TestTrimNonEmpty(t *testing.T) {
	t.Parallel()

	got := ramendb.TrimNonEmpty([]string{"  first ", "\n", "", "second\t", "   "})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestTrimNonEmpty_AllBlank(t *testing.T) {
	t.Parallel()

	got := ramendb.TrimNonEmpty([]string{" ", "\n"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStripCountSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "1,234件", want: "1234", wantOK: true},
		{input: "56人", want: "56", wantOK: true},
		{input: "4.5点", want: "4.5", wantOK: true},
		{input: "12位", want: "12", wantOK: true},
		{input: "1,000,000", want: "1000000", wantOK: true},
		{input: "件", want: "", wantOK: false},
		{input: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ramendb.StripCountSuffix(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStripCountSuffix_ThenCoerce(t *testing.T) {
	t.Parallel()

	count, ok := ramendb.StripCountSuffix("1,234件")
	assert.True(t, ok)
	assert.Equal(t, ramendb.IntValue(1234), ramendb.IntOrPassthrough(count))

	score, ok := ramendb.StripCountSuffix("4.5点")
	assert.True(t, ok)
	assert.Equal(t, ramendb.FloatValue(4.5), ramendb.FloatOrPassthrough(score))
}
