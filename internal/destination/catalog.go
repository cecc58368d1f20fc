package destination

import (
	"context"
	"sync"
)

// RecordLoader produces a freshly normalized record list.
type RecordLoader interface {
	Load(ctx context.Context) ([]Record, error)
}

// Catalog holds the current record snapshot shared by the HTTP handlers.
// A reload replaces the snapshot in full; a failed reload empties it.
type Catalog struct {
	loader RecordLoader

	// first serialises the lazy initial load.
	first sync.Mutex

	mu      sync.RWMutex
	records []Record
	loaded  bool
	err     error
}

// NewCatalog constructs an empty Catalog backed by loader.
func NewCatalog(loader RecordLoader) *Catalog {
	return &Catalog{loader: loader}
}

// Reload rebuilds the snapshot from the loader.
func (c *Catalog) Reload(ctx context.Context) error {
	records, err := c.loader.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = true
	if err != nil {
		c.records = nil
		c.err = err
		return err
	}
	c.records = records
	c.err = nil
	return nil
}

// Load returns the current snapshot, loading it first if the catalog has
// never been loaded. Concurrent first callers share a single load. It also
// returns the error of the last failed load.
func (c *Catalog) Load(ctx context.Context) ([]Record, error) {
	if !c.isLoaded() {
		c.first.Lock()
		if !c.isLoaded() {
			if err := c.Reload(ctx); err != nil {
				c.first.Unlock()
				return []Record{}, err
			}
		}
		c.first.Unlock()
	}

	return c.Snapshot()
}

func (c *Catalog) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot returns a copy of the current records and the last load error.
func (c *Catalog) Snapshot() ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.err != nil {
		return []Record{}, c.err
	}
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out, nil
}
