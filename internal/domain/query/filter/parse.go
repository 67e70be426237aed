package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/strindex/internal/domain"
)

// InvalidValueError wraps ErrInvalidValue with the offending field and raw input.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s=%q: %s", domain.ErrInvalidValue.Error(), e.Field, e.Value, e.Reason)
}

func (e *InvalidValueError) Unwrap() error { return domain.ErrInvalidValue }

// NewInvalidValue creates an invalid value error for field.
func NewInvalidValue(field, value, reason string) error {
	return &InvalidValueError{Field: field, Value: value, Reason: reason}
}

// Parse converts raw field values into a validated Set.
// Keys other than the recognized field names are ignored; absent keys stay absent.
func Parse(raw map[string]string) (Set, error) {
	var s Set

	if v, ok := raw[FieldIsPalindrome]; ok {
		b, err := parseBool(FieldIsPalindrome, v)
		if err != nil {
			return Set{}, err
		}
		s = s.WithIsPalindrome(b)
	}
	if v, ok := raw[FieldMinLength]; ok {
		n, err := ParseCount(FieldMinLength, v)
		if err != nil {
			return Set{}, err
		}
		s = s.WithMinLength(n)
	}
	if v, ok := raw[FieldMaxLength]; ok {
		n, err := ParseCount(FieldMaxLength, v)
		if err != nil {
			return Set{}, err
		}
		s = s.WithMaxLength(n)
	}
	if v, ok := raw[FieldWordCount]; ok {
		n, err := ParseCount(FieldWordCount, v)
		if err != nil {
			return Set{}, err
		}
		s = s.WithWordCount(n)
	}
	if v, ok := raw[FieldContainsCharacter]; ok {
		c, err := parseChar(FieldContainsCharacter, v)
		if err != nil {
			return Set{}, err
		}
		s = s.WithContainsCharacter(c)
	}

	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

func parseBool(field, v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, NewInvalidValue(field, v, "must be true or false")
	}
}

// ParseCount parses a non-negative base-10 integer that fits in int.
func ParseCount(field, v string) (int, error) {
	n, err := strconv.ParseUint(v, 10, strconv.IntSize-1)
	if err != nil {
		return 0, NewInvalidValue(field, v, "must be a non-negative integer")
	}
	return int(n), nil
}

func parseChar(field, v string) (rune, error) {
	if !utf8.ValidString(v) || utf8.RuneCountInString(v) != 1 {
		return 0, NewInvalidValue(field, v, "must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r, nil
}
