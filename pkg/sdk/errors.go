package strindex

import "github.com/kailas-cloud/strindex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrEmptyValue         = domain.ErrEmptyValue
	ErrStoreFull          = domain.ErrStoreFull
	ErrInvalidValue       = domain.ErrInvalidValue
	ErrConflictingFilters = domain.ErrConflictingFilters
	ErrUnparseable        = domain.ErrUnparseable
)
