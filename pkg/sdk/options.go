package strindex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Client created by New.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	maxRecords int
	now        func() time.Time
	seed       []string
	sqliteDSN  *string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMaxRecords caps the number of stored strings; Add returns ErrStoreFull past it.
// Zero, the default, means no cap.
func WithMaxRecords(n int) Option {
	return optionFunc(func(c *clientConfig) { c.maxRecords = n })
}

// WithClock sets the source of CreatedAt timestamps. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) { c.now = now })
}

// WithSQLite keeps strings in an embedded SQLite database instead of a Go map.
// An empty dsn opens a private in-memory database. Call Client.Close when done.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) { c.sqliteDSN = &dsn })
}

// WithValues stores the given strings when the client is created, in order.
// Empty strings and duplicates are skipped.
func WithValues(values ...string) Option {
	return optionFunc(func(c *clientConfig) { c.seed = append(c.seed, values...) })
}

// WithLogger logs failed operations at warn level and the rest at debug.
// Nil, the default, disables logging.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = l })
}

// WithPrometheus registers the strindex_sdk_* metrics on reg.
// Several clients may share one registerer. Nil, the default, disables metrics.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) { c.metricsReg = reg })
}
