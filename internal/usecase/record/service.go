package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/analysis"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/query/nlq"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	"github.com/kailas-cloud/strindex/internal/logger"
	"github.com/kailas-cloud/strindex/internal/metrics"
)

// Service handles string ingestion, lookup and filtering.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a record service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the clock used for creation timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Create analyzes value and stores it. Returns ErrAlreadyExists for a duplicate value.
func (s *Service) Create(ctx context.Context, value string) (domrec.Record, error) {
	r, err := domrec.New(value, s.now())
	if err != nil {
		return domrec.Record{}, err
	}

	if err := s.repo.Put(ctx, r); err != nil {
		return domrec.Record{}, fmt.Errorf("store string: %w", err)
	}
	metrics.RecordsStored.Set(float64(s.repo.Count(ctx)))

	logger.FromContext(ctx).Debug("string stored",
		zap.String("id", r.ID()),
		zap.Int("length", r.Length()),
		zap.Bool("is_palindrome", r.IsPalindrome()),
	)
	return r, nil
}

// Get looks a string up by value.
func (s *Service) Get(ctx context.Context, value string) (domrec.Record, error) {
	r, err := s.repo.Get(ctx, analysis.Hash(value))
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get string: %w", err)
	}
	return r, nil
}

// List parses structured filters and returns the matching records with the applied filter set.
func (s *Service) List(ctx context.Context, raw map[string]string) ([]domrec.Record, filter.Set, error) {
	f, err := filter.Parse(raw)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(metrics.KindStructured, outcome(err)).Inc()
		return nil, filter.Set{}, fmt.Errorf("parse filters: %w", err)
	}

	records, err := s.list(ctx, metrics.KindStructured, f)
	if err != nil {
		return nil, filter.Set{}, err
	}
	return records, f, nil
}

// Search interprets a natural language phrase and returns the matching records
// with the interpreted query.
func (s *Service) Search(ctx context.Context, phrase string) ([]domrec.Record, nlq.Interpreted, error) {
	ctx = logger.WithFields(ctx, zap.String("query", phrase))

	q, err := nlq.Interpret(phrase)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(metrics.KindNaturalLanguage, outcome(err)).Inc()
		logger.FromContext(ctx).Debug("natural language query rejected", zap.Error(err))
		return nil, nlq.Interpreted{}, fmt.Errorf("interpret query: %w", err)
	}

	logger.FromContext(ctx).Debug("natural language query interpreted",
		zap.Any("filters", q.Filters().Fields()),
	)

	records, err := s.list(ctx, metrics.KindNaturalLanguage, q.Filters())
	if err != nil {
		return nil, nlq.Interpreted{}, err
	}
	return records, q, nil
}

// Delete removes a string by value.
func (s *Service) Delete(ctx context.Context, value string) error {
	id := analysis.Hash(value)
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete string: %w", err)
	}
	metrics.RecordsStored.Set(float64(s.repo.Count(ctx)))

	logger.FromContext(ctx).Debug("string deleted", zap.String("id", id))
	return nil
}

func (s *Service) list(ctx context.Context, kind string, f filter.Set) ([]domrec.Record, error) {
	records, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list strings: %w", err)
	}
	metrics.QueriesTotal.WithLabelValues(kind, metrics.OutcomeOK).Inc()
	metrics.QueryMatches.WithLabelValues(kind).Observe(float64(len(records)))
	return records, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflictingFilters):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrUnparseable):
		return metrics.OutcomeUnparseable
	default:
		return metrics.OutcomeInvalid
	}
}
