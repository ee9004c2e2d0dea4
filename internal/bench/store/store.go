package store

import (
	"context"

	"github.com/vecmark/vecmark/internal/bench/matrix"
)

// Store is the slice of a vector database the benchmark driver needs.
// Implementations own the connection; the driver owns collection naming
// and call ordering.
type Store interface {
	// Provision creates an empty collection, dropping any previous one
	// with the same name.
	Provision(ctx context.Context, collection string, dim int) error
	// InsertBatch stores one bounded batch of vectors under the given ids.
	InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error
	// Flush forces inserted data to durable storage.
	Flush(ctx context.Context, collection string) error
	// Count returns the number of stored entities.
	Count(ctx context.Context, collection string) (int64, error)
	// BuildIndex builds the configured index and blocks until it is ready.
	BuildIndex(ctx context.Context, collection string, cfg matrix.IndexConfig) error
	// Load makes the collection queryable.
	Load(ctx context.Context, collection string) error
	// Search issues one batch request and returns the neighbor ids per
	// query vector, in input order.
	Search(ctx context.Context, collection string, cfg matrix.IndexConfig, vectors [][]float32, topK int) ([][]int64, error)
	Close() error
}
