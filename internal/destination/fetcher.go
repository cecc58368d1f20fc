package destination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Source is anything that can produce a dataset document.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Document, error)
}

// Loader fetches all configured sources in parallel and normalizes the
// documents in source order.
type Loader struct {
	sources []Source
	log     *slog.Logger
}

// NewLoader constructs a Loader over the given sources.
func NewLoader(log *slog.Logger, sources ...Source) *Loader {
	return &Loader{sources: sources, log: log}
}

// Load fetches every source and returns the normalized records. Any failure is
// terminal for the load: the result is an empty list and an error wrapping
// ErrDataUnavailable. No retries are attempted.
func (l *Loader) Load(ctx context.Context) ([]Record, error) {
	if len(l.sources) == 0 {
		return []Record{}, fmt.Errorf("no dataset sources configured: %w", ErrDataUnavailable)
	}

	docs := make([]Document, len(l.sources))
	g, gCtx := errgroup.WithContext(ctx)

	for i, src := range l.sources {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					l.log.Error("dataset fetch panicked", "source", src.Name(), "recover", r)
					err = fmt.Errorf("dataset fetch %s panicked: %v", src.Name(), r)
				}
			}()
			doc, fetchErr := src.Fetch(gCtx)
			if fetchErr != nil {
				return fetchErr
			}
			if doc == nil {
				return fmt.Errorf("dataset %s: empty document", src.Name())
			}
			docs[i] = *doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.log.Error("failed to load dataset", "err", err)
		if errors.Is(err, ErrDataUnavailable) {
			return []Record{}, err
		}
		return []Record{}, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	records := Normalize(docs...)
	l.log.Info("dataset loaded", "sources", len(l.sources), "records", len(records))
	return records, nil
}
