package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesWord(t *testing.T) {
	tests := []struct {
		value string
		term  string
		want  bool
	}{
		{"IL6", "IL6", true},
		{"Protein IL6 level", "il6", true},
		{"IL60", "IL6", false},
		{"MIL6", "IL6", false},
		{"IL6_R", "IL6", false},
		{"IL6/IL6R", "IL6", true},
		{"NT-proBNP", "nt-probnp", true},
		{"NT-proBNP (plasma)", "NT-proBNP", true},
		{"IL-6 receptor", "il-6", true},
		{"L6", "L6", true},
		{"IL6", "L6", false},
		{"x -5", "-5", false},
		{"heart failure", "failure", true},
		{"heartfailure", "failure", false},
		{"failure failures", "failures", true},
		{"failures failure", "failure", true},
		{"", "a", false},
		{"anything", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesWord(tt.value, tt.term))
		})
	}
}

// Word runes are Unicode letters and digits, so accented names only match whole.
func TestMatchesWordUnicodeBoundaries(t *testing.T) {
	assert.True(t, MatchesWord("Café au lait spots", "café"))
	assert.False(t, MatchesWord("cafés", "café"))
	assert.True(t, MatchesWord("Sjögren syndrome", "SJÖGREN"))
	assert.False(t, MatchesWord("Sjögrens", "sjögren"))
	assert.False(t, MatchesWord("Ménière", "m"))
	assert.True(t, MatchesWord("naïve-control", "naïve"))
	assert.True(t, MatchesWord("IL6²", "IL6"), "superscripts are not decimal digits")
	assert.False(t, MatchesWord("IL6٣", "IL6"), "non-ASCII decimal digits are word runes")
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"heart", "failure"}, Terms("  Heart\tFAILURE \n"))
	assert.Empty(t, Terms("   "))
}
