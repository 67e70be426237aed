package chi

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/query/nlq"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeInvalidFilterValue  ErrorCode = "invalid_filter_value"
	ErrorCodeUnparseableQuery    ErrorCode = "unparseable_query"
	ErrorCodeConflictingFilters  ErrorCode = "conflicting_filters"
	ErrorCodeStringNotFound      ErrorCode = "string_not_found"
	ErrorCodeStringAlreadyExists ErrorCode = "string_already_exists"
	ErrorCodeStoreFull           ErrorCode = "store_full"
	ErrorCodePayloadTooLarge     ErrorCode = "payload_too_large"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateStringRequest is the body of POST /strings.
// Value stays raw so a non-string value can be told apart from a missing one.
type CreateStringRequest struct {
	Value json.RawMessage `json:"value"`
}

// Properties is the JSON form of the analyzed properties.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// StringResponse is the JSON form of a stored record.
type StringResponse struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Filters is the JSON form of a filter set. Absent predicates are omitted.
type Filters struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// StringListResponse is the body of GET /strings.
type StringListResponse struct {
	Data           []StringResponse `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied Filters          `json:"filters_applied"`
}

// InterpretedQuery describes how a natural language query was understood.
type InterpretedQuery struct {
	Original      string  `json:"original"`
	ParsedFilters Filters `json:"parsed_filters"`
}

// NaturalLanguageResponse is the body of GET /strings/filter-by-natural-language.
type NaturalLanguageResponse struct {
	Data             []StringResponse `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	InstanceID string            `json:"instance_id,omitempty"`
	Records    int               `json:"records"`
	UptimeSec  int64             `json:"uptime_sec"`
}

// StringResponseFrom converts a record to its JSON form.
func StringResponseFrom(r domrec.Record) StringResponse {
	p := r.Properties()
	freq := make(map[string]int, len(p.CharacterFrequency))
	for c, n := range p.CharacterFrequency {
		freq[string(c)] = n
	}
	return StringResponse{
		ID:    r.ID(),
		Value: r.Value(),
		Properties: Properties{
			Length:                p.Length,
			IsPalindrome:          p.IsPalindrome,
			UniqueCharacters:      p.UniqueCharacters,
			WordCount:             p.WordCount,
			SHA256Hash:            p.SHA256Hash,
			CharacterFrequencyMap: freq,
		},
		CreatedAt: r.CreatedAt(),
	}
}

func recordsToResponse(rs []domrec.Record) []StringResponse {
	out := make([]StringResponse, len(rs))
	for i, r := range rs {
		out[i] = StringResponseFrom(r)
	}
	return out
}

// FiltersFrom converts a filter set to its JSON form.
func FiltersFrom(s filter.Set) Filters {
	var f Filters
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
	if c, ok := s.ContainsCharacter(); ok {
		str := string(c)
		f.ContainsCharacter = &str
	}
	return f
}

// InterpretedQueryFrom converts an interpreted query to its JSON form.
func InterpretedQueryFrom(q nlq.Interpreted) InterpretedQuery {
	return InterpretedQuery{
		Original:      q.Original(),
		ParsedFilters: FiltersFrom(q.Filters()),
	}
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{
		Status:     string(r.Status),
		Checks:     checks,
		InstanceID: r.InstanceID,
		Records:    r.Records,
		UptimeSec:  int64(r.Uptime.Seconds()),
	}
}
