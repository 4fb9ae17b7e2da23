package coercer

import (
	"testing"

	"proteoportal/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	strict := NewTypeCoercer(StrictCoercionConfig())
	lenient := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		input      string
		strictOK   bool
		lenientOK  bool
		wantNumber float64
	}{
		{input: "12", strictOK: true, lenientOK: true, wantNumber: 12},
		{input: " -0.5 ", strictOK: true, lenientOK: true, wantNumber: -0.5},
		{input: "1.2e-05", strictOK: true, lenientOK: true, wantNumber: 1.2e-05},
		{input: "1,234.5", strictOK: false, lenientOK: true, wantNumber: 1234.5},
		{input: "(3.5)", strictOK: false, lenientOK: true, wantNumber: -3.5},
		{input: "−0.25", strictOK: false, lenientOK: true, wantNumber: -0.25},
		{input: "12%", strictOK: false, lenientOK: true, wantNumber: 12},
		{input: "1,2", strictOK: false, lenientOK: false},
		{input: "NaN", strictOK: false, lenientOK: false},
		{input: "Inf", strictOK: false, lenientOK: false},
		{input: "0x10", strictOK: false, lenientOK: false},
		{input: "IL6", strictOK: false, lenientOK: false},
		{input: "", strictOK: false, lenientOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := strict.ParseNumber(tt.input)
			assert.Equal(t, tt.strictOK, ok, "strict")
			if ok {
				assert.InDelta(t, tt.wantNumber, got, 1e-12)
			}

			got, ok = lenient.ParseNumber(tt.input)
			assert.Equal(t, tt.lenientOK, ok, "lenient")
			if ok {
				assert.InDelta(t, tt.wantNumber, got, 1e-12)
			}
		})
	}
}

func TestCoerceValueKeepsRawText(t *testing.T) {
	c := NewTypeCoercer(StrictCoercionConfig())

	v := c.CoerceValue("0.050")
	f, ok := v.Float()
	assert.True(t, ok)
	assert.Equal(t, 0.05, f)
	assert.Equal(t, "0.050", v.String())

	v = c.CoerceValue("NT-proBNP")
	assert.False(t, v.IsNumeric())
	assert.Equal(t, "NT-proBNP", v.String())
}

func TestNumberIgnoresLoadTimeInference(t *testing.T) {
	f, ok := Number(dataset.StringValue("1,500"))
	assert.True(t, ok)
	assert.Equal(t, 1500.0, f)

	f, ok = Number(dataset.NumberValue("2", 2))
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	_, ok = Number(dataset.StringValue(""))
	assert.False(t, ok)
}
