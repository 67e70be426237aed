package strindex

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
)

// Properties are the values derived from a string on insertion.
type Properties struct {
	Length             int
	IsPalindrome       bool
	UniqueCharacters   int
	WordCount          int
	SHA256Hash         string
	CharacterFrequency map[rune]int
}

// String is an analyzed, stored string.
type String struct {
	ID         string
	Value      string
	Properties Properties
	CreatedAt  time.Time
}

// Filter selects strings. Nil fields impose no constraint; all set fields must hold.
type Filter struct {
	IsPalindrome      *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter *rune
}

// Interpretation is the filter a natural language phrase resolved to.
type Interpretation struct {
	Original string
	Filter   Filter
}

// raw renders the filter in query parameter form so it goes through the same parsing as HTTP input.
func (f Filter) raw() map[string]string {
	m := make(map[string]string, len(filter.FieldNames))
	if f.IsPalindrome != nil {
		m[filter.FieldIsPalindrome] = strconv.FormatBool(*f.IsPalindrome)
	}
	if f.MinLength != nil {
		m[filter.FieldMinLength] = strconv.Itoa(*f.MinLength)
	}
	if f.MaxLength != nil {
		m[filter.FieldMaxLength] = strconv.Itoa(*f.MaxLength)
	}
	if f.WordCount != nil {
		m[filter.FieldWordCount] = strconv.Itoa(*f.WordCount)
	}
	if f.ContainsCharacter != nil {
		m[filter.FieldContainsCharacter] = string(*f.ContainsCharacter)
	}
	return m
}

func filterFromSet(s filter.Set) Filter {
	var f Filter
	if v, ok := s.IsPalindrome(); ok {
		f.IsPalindrome = &v
	}
	if v, ok := s.MinLength(); ok {
		f.MinLength = &v
	}
	if v, ok := s.MaxLength(); ok {
		f.MaxLength = &v
	}
	if v, ok := s.WordCount(); ok {
		f.WordCount = &v
	}
	if v, ok := s.ContainsCharacter(); ok {
		f.ContainsCharacter = &v
	}
	return f
}

func stringFromRecord(r domrec.Record) String {
	p := r.Properties()
	return String{
		ID:    r.ID(),
		Value: r.Value(),
		Properties: Properties{
			Length:             p.Length,
			IsPalindrome:       p.IsPalindrome,
			UniqueCharacters:   p.UniqueCharacters,
			WordCount:          p.WordCount,
			SHA256Hash:         p.SHA256Hash,
			CharacterFrequency: p.CharacterFrequency,
		},
		CreatedAt: r.CreatedAt(),
	}
}

func stringsFromRecords(rs []domrec.Record) []String {
	out := make([]String, len(rs))
	for i, r := range rs {
		out[i] = stringFromRecord(r)
	}
	return out
}
