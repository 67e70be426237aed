package record

import (
	"context"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
)

// Repository defines the storage contract for string records.
type Repository interface {
	Put(ctx context.Context, r domrec.Record) error
	Get(ctx context.Context, id string) (domrec.Record, error)
	List(ctx context.Context, f filter.Set) ([]domrec.Record, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) int
}
