package filter

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/strindex/internal/domain"
)

// Field names as they appear in query parameters and responses.
const (
	FieldIsPalindrome      = "is_palindrome"
	FieldMinLength         = "min_length"
	FieldMaxLength         = "max_length"
	FieldWordCount         = "word_count"
	FieldContainsCharacter = "contains_character"
)

// FieldNames lists every recognized filter field in a stable order.
var FieldNames = []string{
	FieldIsPalindrome,
	FieldMinLength,
	FieldMaxLength,
	FieldWordCount,
	FieldContainsCharacter,
}

// Set is a conjunction of optional predicates over a record.
// Absent fields impose no constraint. The zero value is an empty set.
type Set struct {
	isPalindrome      *bool
	minLength         *int
	maxLength         *int
	wordCount         *int
	containsCharacter *rune
}

// IsPalindrome returns the palindrome predicate and whether it is present.
func (s Set) IsPalindrome() (bool, bool) { return derefOK(s.isPalindrome) }

// MinLength returns the inclusive lower length bound and whether it is present.
func (s Set) MinLength() (int, bool) { return derefOK(s.minLength) }

// MaxLength returns the inclusive upper length bound and whether it is present.
func (s Set) MaxLength() (int, bool) { return derefOK(s.maxLength) }

// WordCount returns the exact word count predicate and whether it is present.
func (s Set) WordCount() (int, bool) { return derefOK(s.wordCount) }

// ContainsCharacter returns the required character and whether it is present.
func (s Set) ContainsCharacter() (rune, bool) { return derefOK(s.containsCharacter) }

// WithIsPalindrome returns a copy with the palindrome predicate set.
func (s Set) WithIsPalindrome(v bool) Set {
	s.isPalindrome = &v
	return s
}

// WithMinLength returns a copy with the lower length bound set.
func (s Set) WithMinLength(v int) Set {
	s.minLength = &v
	return s
}

// WithMaxLength returns a copy with the upper length bound set.
func (s Set) WithMaxLength(v int) Set {
	s.maxLength = &v
	return s
}

// WithWordCount returns a copy with the word count predicate set.
func (s Set) WithWordCount(v int) Set {
	s.wordCount = &v
	return s
}

// WithContainsCharacter returns a copy with the required character set.
func (s Set) WithContainsCharacter(c rune) Set {
	s.containsCharacter = &c
	return s
}

// IsEmpty reports whether no predicate is present.
func (s Set) IsEmpty() bool {
	return s.isPalindrome == nil && s.minLength == nil && s.maxLength == nil &&
		s.wordCount == nil && s.containsCharacter == nil
}

// Validate checks that the predicates are jointly satisfiable.
func (s Set) Validate() error {
	minLen, hasMin := s.MinLength()
	maxLen, hasMax := s.MaxLength()
	if hasMin && hasMax && minLen > maxLen {
		return fmt.Errorf("min_length (%d) cannot be greater than max_length (%d): %w",
			minLen, maxLen, domain.ErrConflictingFilters)
	}
	return nil
}

// Fields returns the present predicates rendered as strings, keyed by field name.
func (s Set) Fields() map[string]string {
	m := make(map[string]string, len(FieldNames))
	if v, ok := s.IsPalindrome(); ok {
		m[FieldIsPalindrome] = strconv.FormatBool(v)
	}
	if v, ok := s.MinLength(); ok {
		m[FieldMinLength] = strconv.Itoa(v)
	}
	if v, ok := s.MaxLength(); ok {
		m[FieldMaxLength] = strconv.Itoa(v)
	}
	if v, ok := s.WordCount(); ok {
		m[FieldWordCount] = strconv.Itoa(v)
	}
	if v, ok := s.ContainsCharacter(); ok {
		m[FieldContainsCharacter] = string(v)
	}
	return m
}

func derefOK[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
