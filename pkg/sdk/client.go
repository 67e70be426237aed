package strindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/query/nlq"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	"github.com/kailas-cloud/strindex/internal/repository/memory"
	"github.com/kailas-cloud/strindex/internal/repository/sqlite"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strindex/internal/usecase/record"
)

// Internal interfaces, swapped for mocks in tests.
type recordUseCase interface {
	Create(ctx context.Context, value string) (domrec.Record, error)
	Get(ctx context.Context, value string) (domrec.Record, error)
	List(ctx context.Context, raw map[string]string) ([]domrec.Record, filter.Set, error)
	Search(ctx context.Context, phrase string) ([]domrec.Record, nlq.Interpreted, error)
	Delete(ctx context.Context, value string) error
}

type storeUseCase interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) int
}

type recordStore interface {
	recorduc.Repository
	storeUseCase
}

// Client is the strindex SDK entry point.
type Client struct {
	store     storeUseCase
	recordSvc recordUseCase
	healthSvc healthUseCase
	obs       *observer
	closeFn   func() error
}

// New creates a Client backed by a fresh in-memory store, or SQLite with WithSQLite.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.maxRecords < 0 {
		return nil, fmt.Errorf("strindex: max records must be >= 0, got %d", cfg.maxRecords)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		store   recordStore
		closeFn = func() error { return nil }
	)
	if cfg.sqliteDSN != nil {
		s, err := sqlite.Open(context.Background(), *cfg.sqliteDSN)
		if err != nil {
			return nil, fmt.Errorf("strindex: %w", err)
		}
		store, closeFn = s.WithMaxRecords(cfg.maxRecords), s.Close
	} else {
		store = memory.New().WithMaxRecords(cfg.maxRecords)
	}

	c := &Client{
		store:     store,
		recordSvc: recorduc.New(store).WithClock(cfg.now),
		healthSvc: healthuc.New(store, "").WithCapacity(cfg.maxRecords),
		obs:       obs,
		closeFn:   closeFn,
	}
	if err := c.seed(context.Background(), cfg.seed); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the store. It is a no-op for the default in-memory store.
func (c *Client) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func (c *Client) seed(ctx context.Context, values []string) error {
	for _, v := range values {
		_, err := c.recordSvc.Create(ctx, v)
		switch {
		case err == nil, errors.Is(err, ErrEmptyValue), errors.Is(err, ErrAlreadyExists):
		default:
			return fmt.Errorf("strindex: seed %q: %w", v, err)
		}
	}
	return nil
}

// Ping checks that the store is usable.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Count returns the number of stored strings.
func (c *Client) Count(ctx context.Context) int {
	return c.store.Count(ctx)
}

// Add analyzes value and stores it.
// Returns ErrEmptyValue for "" and ErrAlreadyExists if the same value is already stored.
func (c *Client) Add(ctx context.Context, value string) (s String, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add", start, err) }()

	r, err := c.recordSvc.Create(ctx, value)
	if err != nil {
		return String{}, fmt.Errorf("add: %w", err)
	}
	return stringFromRecord(r), nil
}

// Get returns the stored string equal to value, or ErrNotFound.
func (c *Client) Get(ctx context.Context, value string) (s String, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	r, err := c.recordSvc.Get(ctx, value)
	if err != nil {
		return String{}, fmt.Errorf("get: %w", err)
	}
	return stringFromRecord(r), nil
}

// Delete removes the stored string equal to value, or returns ErrNotFound.
func (c *Client) Delete(ctx context.Context, value string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	if err = c.recordSvc.Delete(ctx, value); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// List returns the stored strings matching f in insertion order.
// Returns ErrInvalidValue for negative bounds and ErrConflictingFilters if MinLength > MaxLength.
func (c *Client) List(ctx context.Context, f Filter) (out []String, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	rs, _, err := c.recordSvc.List(ctx, f.raw())
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	c.obs.resultSize("list", len(rs))
	return stringsFromRecords(rs), nil
}

// Query interprets phrase as a filter and returns the matching strings.
// Returns ErrUnparseable if nothing in the phrase is recognized.
func (c *Client) Query(ctx context.Context, phrase string) (out []String, q Interpretation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	rs, interpreted, err := c.recordSvc.Search(ctx, phrase)
	if err != nil {
		return nil, Interpretation{}, fmt.Errorf("query: %w", err)
	}
	c.obs.resultSize("query", len(rs))
	return stringsFromRecords(rs), Interpretation{
		Original: interpreted.Original(),
		Filter:   filterFromSet(interpreted.Filters()),
	}, nil
}
