package storage

import (
	"context"
	"fmt"

	"github.com/neexbeast/travelrec/internal/destination"
)

// datasetGetter is the subset of Repository used by DatasetSource.
type datasetGetter interface {
	GetDataset(ctx context.Context, name string) (*destination.Dataset, error)
}

// DatasetSource serves a named dataset stored in Postgres.
type DatasetSource struct {
	repo datasetGetter
	name string
}

// NewDatasetSource constructs a source for the dataset called name.
func NewDatasetSource(repo datasetGetter, name string) *DatasetSource {
	return &DatasetSource{repo: repo, name: name}
}

// Name identifies the source as pg:<dataset>.
func (s *DatasetSource) Name() string { return "pg:" + s.name }

// Fetch loads the stored document. A missing dataset is data-unavailable.
func (s *DatasetSource) Fetch(ctx context.Context) (*destination.Document, error) {
	ds, err := s.repo.GetDataset(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("dataset %s not found: %w", s.name, destination.ErrDataUnavailable)
	}
	return &ds.Document, nil
}
