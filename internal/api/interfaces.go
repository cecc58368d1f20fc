package api

import (
	"context"

	"github.com/neexbeast/travelrec/internal/destination"
)

// Catalog defines the record snapshot operations needed by handlers.
type Catalog interface {
	Load(ctx context.Context) ([]destination.Record, error)
	Reload(ctx context.Context) error
}

// CacheInvalidator drops a cached dataset document so the next reload
// fetches it from its source.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Pinger checks connectivity to an optional backend.
type Pinger interface {
	Ping(ctx context.Context) error
}
