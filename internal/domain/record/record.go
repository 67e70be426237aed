package record

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/analysis"
)

// Record is a stored string with its derived properties (immutable value object).
type Record struct {
	id         string
	value      string
	properties analysis.Properties
	createdAt  time.Time
}

// New analyzes value and creates a Record identified by its content hash.
func New(value string, now time.Time) (Record, error) {
	if value == "" {
		return Record{}, fmt.Errorf("new record: %w", domain.ErrEmptyValue)
	}
	props := analysis.Analyze(value)
	return Record{
		id:         props.SHA256Hash,
		value:      value,
		properties: props,
		createdAt:  now.UTC(),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id, value string, props analysis.Properties, createdAt time.Time) Record {
	return Record{id: id, value: value, properties: props, createdAt: createdAt}
}

// ID returns the content hash identifying the record.
func (r Record) ID() string { return r.id }

// Value returns the original text.
func (r Record) Value() string { return r.value }

// CreatedAt returns the ingestion time in UTC.
func (r Record) CreatedAt() time.Time { return r.createdAt }

// Length returns the length in Unicode scalars.
func (r Record) Length() int { return r.properties.Length }

// IsPalindrome reports the case- and whitespace-insensitive palindrome flag.
func (r Record) IsPalindrome() bool { return r.properties.IsPalindrome }

// WordCount returns the number of whitespace-separated words.
func (r Record) WordCount() int { return r.properties.WordCount }

// Properties returns a copy of the derived properties.
func (r Record) Properties() analysis.Properties {
	p := r.properties
	p.CharacterFrequency = cloneFrequency(r.properties.CharacterFrequency)
	return p
}

func cloneFrequency(m map[rune]int) map[rune]int {
	if m == nil {
		return nil
	}
	c := make(map[rune]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
