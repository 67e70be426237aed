package filter

import "strings"

// Target is the read-only view of a record the evaluator needs.
type Target interface {
	Value() string
	Length() int
	IsPalindrome() bool
	WordCount() int
}

// Matches reports whether t satisfies every present predicate of s.
// Length bounds are inclusive; contains_character is case-sensitive against the raw value.
func Matches(t Target, s Set) bool {
	if v, ok := s.IsPalindrome(); ok && t.IsPalindrome() != v {
		return false
	}
	if v, ok := s.MinLength(); ok && t.Length() < v {
		return false
	}
	if v, ok := s.MaxLength(); ok && t.Length() > v {
		return false
	}
	if v, ok := s.WordCount(); ok && t.WordCount() != v {
		return false
	}
	if c, ok := s.ContainsCharacter(); ok && !strings.ContainsRune(t.Value(), c) {
		return false
	}
	return true
}

// Matches reports whether t satisfies the set.
func (s Set) Matches(t Target) bool { return Matches(t, s) }
