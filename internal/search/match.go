package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Terms splits a search string on whitespace into lowercase terms
func Terms(term string) []string {
	return strings.Fields(strings.ToLower(term))
}

// MatchesWord reports whether term occurs in value as a whole word, ignoring case.
// A word boundary sits between a word rune and a non-word rune (or the string
// edge), where word runes are Unicode letters, Unicode digits and '_'. A term
// that starts or ends with punctuation therefore needs a word rune on the other
// side of that edge, exactly like a regular expression \b.
func MatchesWord(value, term string) bool {
	return containsWord(strings.ToLower(value), strings.ToLower(term))
}

// containsWord expects both arguments already lowercased
func containsWord(value, term string) bool {
	if term == "" {
		return true
	}
	offset := 0
	for offset+len(term) <= len(value) {
		i := strings.Index(value[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if isBoundary(value, start) && isBoundary(value, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(value[start:])
		offset = start + size
	}
	return false
}

// matchesAllTerms reports whether every term is a whole word of value
func matchesAllTerms(value string, terms []string) bool {
	for _, term := range terms {
		if !containsWord(value, term) {
			return false
		}
	}
	return true
}

func isBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
