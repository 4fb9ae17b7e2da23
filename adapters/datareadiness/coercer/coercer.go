package coercer

import (
	"math"
	"strconv"
	"strings"

	"proteoportal/domain/dataset"
)

// TypeCoercer turns raw cell text into numbers under a fixed set of rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig selects how forgiving numeric parsing is
type CoercionConfig struct {
	// Strict accepts only clean numeric literals ("12", "-0.5", "1.2e-05").
	// Lenient parsing additionally strips thousands separators, percent signs,
	// unicode minus signs and parenthesised negatives.
	Strict bool `json:"strict"`
}

// DefaultCoercionConfig returns the lenient configuration used by consumers
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{Strict: false}
}

// StrictCoercionConfig returns the configuration used for load-time inference
func StrictCoercionConfig() CoercionConfig {
	return CoercionConfig{Strict: true}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceValue builds a dataset value from raw text, attaching a number when one parses
func (c *TypeCoercer) CoerceValue(raw string) dataset.Value {
	if f, ok := c.ParseNumber(raw); ok {
		return dataset.NumberValue(raw, f)
	}
	return dataset.StringValue(raw)
}

// ParseNumber parses raw text under the coercer's rules
func (c *TypeCoercer) ParseNumber(raw string) (float64, bool) {
	if c.config.Strict {
		return parseStrict(raw)
	}
	return parseLenient(raw)
}

var lenient = NewTypeCoercer(DefaultCoercionConfig())

// Number re-derives a number from a cell regardless of load-time inference
func Number(v dataset.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	return lenient.ParseNumber(v.String())
}

func parseStrict(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	// strconv accepts forms that are not plain numerals in a results table.
	lower := strings.ToLower(s)
	if strings.ContainsAny(lower, "_x") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// parseLenient handles the formatting found in exported spreadsheets
func parseLenient(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	cleanVal = strings.ReplaceAll(cleanVal, "−", "-")
	cleanVal = strings.TrimSuffix(cleanVal, "%")
	cleanVal = strings.TrimSpace(cleanVal)

	// Commas are only thousands separators when they group digits in threes
	if strings.Contains(cleanVal, ",") {
		if !hasThousandsGrouping(cleanVal) {
			return 0, false
		}
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	return parseStrict(cleanVal)
}

func hasThousandsGrouping(s string) bool {
	intPart := s
	if i := strings.IndexAny(s, ".eE"); i >= 0 {
		intPart = s[:i]
	}
	intPart = strings.TrimLeft(intPart, "+-")
	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
