package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/travelrec/internal/destination"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for stored dataset documents.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// GetDataset retrieves a dataset by name.
// Returns nil, nil when the dataset does not exist.
func (r *Repository) GetDataset(ctx context.Context, name string) (*destination.Dataset, error) {
	const q = `
		SELECT id, name, document, fetched_at, created_at, updated_at
		FROM datasets
		WHERE name = $1
	`

	var d destination.Dataset
	var docJSON []byte
	var fetchedAt *time.Time

	err := r.q.QueryRow(ctx, q, name).Scan(
		&d.ID,
		&d.Name,
		&docJSON,
		&fetchedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying dataset %s: %w", name, err)
	}

	if err := json.Unmarshal(docJSON, &d.Document); err != nil {
		return nil, fmt.Errorf("unmarshaling dataset %s: %w", name, err)
	}

	d.FetchedAt = fetchedAt
	return &d, nil
}

// UpsertDataset inserts or replaces a dataset document.
// On conflict (name), updates document, fetched_at, and updated_at.
func (r *Repository) UpsertDataset(ctx context.Context, name string, doc destination.Document) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling dataset %s: %w", name, err)
	}

	const q = `
		INSERT INTO datasets (name, document, fetched_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET document   = EXCLUDED.document,
		    fetched_at = EXCLUDED.fetched_at,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, q, name, docJSON); err != nil {
		return fmt.Errorf("upserting dataset %s: %w", name, err)
	}

	return nil
}

// DatasetSummary is one row of ListDatasets.
type DatasetSummary struct {
	Name      string
	Places    int
	UpdatedAt time.Time
}

// ListDatasets returns every stored dataset with the number of places it
// holds, counted in SQL over the JSONB arrays.
func (r *Repository) ListDatasets(ctx context.Context) ([]DatasetSummary, error) {
	const q = `
		SELECT name,
		       COALESCE((SELECT SUM(jsonb_array_length(COALESCE(c->'cities', '[]'::jsonb)))
		                 FROM jsonb_array_elements(COALESCE(document->'countries', '[]'::jsonb)) AS c), 0)::int
		       + jsonb_array_length(COALESCE(document->'temples', '[]'::jsonb))
		       + jsonb_array_length(COALESCE(document->'beaches', '[]'::jsonb))
		       + jsonb_array_length(COALESCE(document->'cities', '[]'::jsonb)) AS places,
		       updated_at
		FROM datasets
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var results []DatasetSummary
	for rows.Next() {
		var s DatasetSummary
		if err := rows.Scan(&s.Name, &s.Places, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dataset rows: %w", err)
	}

	return results, nil
}
