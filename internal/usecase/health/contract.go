package health

import "context"

// StorePinger checks record store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) int
}
