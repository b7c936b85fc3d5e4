package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower cases", input: "Mercedes-Benz AG", want: "mercedes-benz ag"},
		{name: "trims whitespace", input: "  Stuttgart  ", want: "stuttgart"},
		{name: "en dash to hyphen", input: "after sales–parts", want: "after sales-parts"},
		{name: "em dash to hyphen", input: "after sales—parts", want: "after sales-parts"},
		{name: "empty stays empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{"Mercedes–Benz AG ", "  BEIJING  ", "", "already normalized"}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once))
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "european format with unit", input: "28.877,56 KG", want: "28877.56"},
		{name: "single comma as decimal separator", input: "42,000", want: "42"},
		{name: "plain decimal", input: "0.8", want: "0.8"},
		{name: "plain integer with unit", input: "131 kgs", want: "131"},
		{name: "multiple commas stripped", input: "1,234,567", want: "1234567"},
		{name: "unparsable falls to zero", input: "n/a", want: "0"},
		{name: "empty falls to zero", input: "", want: "0"},
		{name: "unit only falls to zero", input: "kg", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, Weight(tt.input).Equal(want),
				"Weight(%q) = %s, want %s", tt.input, Weight(tt.input), want)
		})
	}
}

func TestWeight_Idempotent(t *testing.T) {
	inputs := []string{"28.877,56 KG", "42,000", "0.8", "garbage", "1,234,567 kgs"}
	for _, in := range inputs {
		once := Weight(in)
		assert.True(t, once.Equal(Weight(once.String())),
			"Weight not idempotent for %q", in)
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "1063194729", Digits("INV-1063194729"))
	assert.Equal(t, "", Digits("no digits here"))
	assert.Equal(t, "490123", Digits(" 490 123 "))
}

func TestDigitSet(t *testing.T) {
	got := DigitSet([]string{"1063194729", "INV-1063194729", "1063938444", "", "n/a"})
	assert.Equal(t, []string{"1063194729", "1063938444"}, got)
}

func TestIsVIN(t *testing.T) {
	assert.True(t, IsVIN("W1K2962641A123456"))
	assert.True(t, IsVIN("w1k2962641a123456"))
	assert.False(t, IsVIN("W1K296"))
	assert.False(t, IsVIN(""))
	// I, O and Q are outside the VIN alphabet.
	assert.False(t, IsVIN("W1K2962641A12345I"))
}
