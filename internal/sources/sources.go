// Package sources turns configured source specs into dataset sources.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neexbeast/travelrec/internal/cache"
	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/storage"
)

const pgPrefix = "pg:"

// DatasetStore reads stored dataset documents.
type DatasetStore interface {
	GetDataset(ctx context.Context, name string) (*destination.Dataset, error)
}

// Backends are the optional stores a source list may refer to. A nil field
// is a backend that is not configured.
type Backends struct {
	Datasets DatasetStore
	Cache    *cache.Cache
}

// Set is the result of Build.
type Set struct {
	Sources []destination.Source
	// Cached are the sources behind the Redis cache, for invalidation.
	Cached []*cache.CachedSource
}

// Build parses specs in order. A spec is an http(s) URL, "pg:<dataset>" or a
// file path. Remote and stored sources are cached when b.Cache is set.
func Build(specs []string, b Backends, log *slog.Logger) (*Set, error) {
	set := &Set{}
	for _, raw := range specs {
		spec := strings.TrimSpace(raw)
		if spec == "" {
			continue
		}

		var src destination.Source
		switch {
		case strings.HasPrefix(spec, pgPrefix):
			name := strings.TrimSpace(strings.TrimPrefix(spec, pgPrefix))
			if name == "" {
				return nil, fmt.Errorf("source %q: missing dataset name", spec)
			}
			if b.Datasets == nil {
				return nil, fmt.Errorf("source %q needs DATABASE_URL", spec)
			}
			src = storage.NewDatasetSource(b.Datasets, name)
		case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
			src = destination.NewHTTPSource(spec)
		default:
			set.Sources = append(set.Sources, destination.NewFileSource(spec))
			continue
		}

		if b.Cache != nil {
			cs := cache.NewCachedSource(src, b.Cache, log)
			set.Cached = append(set.Cached, cs)
			src = cs
		}
		set.Sources = append(set.Sources, src)
	}

	if len(set.Sources) == 0 {
		return nil, errors.New("no data sources configured")
	}
	return set, nil
}
