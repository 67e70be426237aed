package domain

import "errors"

var (
	// ErrNotFound signals a missing string record.
	ErrNotFound = errors.New("string not found")
	// ErrAlreadyExists signals a duplicate string record.
	ErrAlreadyExists = errors.New("string already exists")
	// ErrEmptyValue signals an empty string value on ingestion.
	ErrEmptyValue = errors.New("value cannot be empty")
	// ErrStoreFull signals that the record store reached its configured capacity.
	ErrStoreFull = errors.New("store is full")

	// ErrInvalidValue signals a malformed single filter value (bad boolean, integer or character).
	ErrInvalidValue = errors.New("invalid filter value")
	// ErrConflictingFilters signals a filter set that is well-typed but unsatisfiable (min_length > max_length).
	ErrConflictingFilters = errors.New("conflicting filters")
	// ErrUnparseable signals that no filter could be derived from a natural language query.
	ErrUnparseable = errors.New("unable to parse natural language query")
)
