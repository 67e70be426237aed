// Package nlq translates free-text queries into filter sets.
//
// Interpretation is a fixed, ordered list of phrase rules run against the
// lower-cased query. A later rule may overwrite a field set by an earlier one.
// There is no tokenization or grammar: a phrase either contains a known pattern
// or it does not.
package nlq

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
)

// Interpreted pairs the original phrase with the filter set derived from it.
type Interpreted struct {
	original string
	filters  filter.Set
}

// Original returns the phrase as received.
func (q Interpreted) Original() string { return q.original }

// Filters returns the derived filter set.
func (q Interpreted) Filters() filter.Set { return q.filters }

// rule inspects the lower-cased phrase and returns the updated set.
type rule struct {
	name  string
	apply func(phrase string, s filter.Set) (filter.Set, error)
}

var (
	longerThanRe  = regexp.MustCompile(`longer than (\d+)`)
	shorterThanRe = regexp.MustCompile(`shorter than (\d+)`)
	letterRe      = regexp.MustCompile(`letter ([a-z])`)
	containingRe  = regexp.MustCompile(`containing (?:the letter )?([a-z])`)
)

// rules run in this order. "containing" runs after "letter" and wins when both match.
var rules = []rule{
	{name: "palindrome", apply: palindromeRule},
	{name: "single_word", apply: singleWordRule},
	{name: "longer_than", apply: longerThanRule},
	{name: "shorter_than", apply: shorterThanRule},
	{name: "first_vowel", apply: firstVowelRule},
	{name: "letter", apply: captureCharRule(letterRe)},
	{name: "containing", apply: captureCharRule(containingRe)},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Interpret derives a filter set from phrase.
// Returns ErrUnparseable if no rule fired and ErrConflictingFilters if the bounds cross.
func Interpret(phrase string) (Interpreted, error) {
	lower := strings.ToLower(phrase)

	var s filter.Set
	for _, r := range rules {
		next, err := r.apply(lower, s)
		if err != nil {
			return Interpreted{}, fmt.Errorf("rule %s: %w", r.name, err)
		}
		s = next
	}

	if err := s.Validate(); err != nil {
		return Interpreted{}, err
	}
	if s.IsEmpty() {
		return Interpreted{}, fmt.Errorf("%w: %q", domain.ErrUnparseable, phrase)
	}
	return Interpreted{original: phrase, filters: s}, nil
}

func palindromeRule(phrase string, s filter.Set) (filter.Set, error) {
	if strings.Contains(phrase, "palindromic") || strings.Contains(phrase, "palindrome") {
		return s.WithIsPalindrome(true), nil
	}
	return s, nil
}

func singleWordRule(phrase string, s filter.Set) (filter.Set, error) {
	if strings.Contains(phrase, "single word") {
		return s.WithWordCount(1), nil
	}
	return s, nil
}

func longerThanRule(phrase string, s filter.Set) (filter.Set, error) {
	m := longerThanRe.FindStringSubmatch(phrase)
	if m == nil {
		return s, nil
	}
	n, err := filter.ParseCount(filter.FieldMinLength, m[1])
	if err != nil {
		return s, err
	}
	if n == math.MaxInt {
		return s, filter.NewInvalidValue(filter.FieldMinLength, m[1], "length bound out of range")
	}
	return s.WithMinLength(n + 1), nil
}

func shorterThanRule(phrase string, s filter.Set) (filter.Set, error) {
	m := shorterThanRe.FindStringSubmatch(phrase)
	if m == nil {
		return s, nil
	}
	n, err := filter.ParseCount(filter.FieldMaxLength, m[1])
	if err != nil {
		return s, err
	}
	if n == 0 {
		return s, filter.NewInvalidValue(filter.FieldMaxLength, m[1], "no string is shorter than 0")
	}
	return s.WithMaxLength(n - 1), nil
}

// firstVowelRule maps "first vowel" to 'a'. It does not scan for vowels.
func firstVowelRule(phrase string, s filter.Set) (filter.Set, error) {
	if strings.Contains(phrase, "first vowel") {
		return s.WithContainsCharacter('a'), nil
	}
	return s, nil
}

func captureCharRule(re *regexp.Regexp) func(string, filter.Set) (filter.Set, error) {
	return func(phrase string, s filter.Set) (filter.Set, error) {
		m := re.FindStringSubmatch(phrase)
		if m == nil {
			return s, nil
		}
		return s.WithContainsCharacter(rune(m[1][0])), nil
	}
}
