package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vecmark/vecmark/internal/bench/matrix"
	"github.com/vecmark/vecmark/internal/retry"
)

const (
	idField     = "id"
	vectorField = "vector"

	defaultConnectAttempts = 5
	defaultConnectInterval = 5 * time.Second
)

type MilvusConfig struct {
	Address         string
	ConnectAttempts int
	ConnectInterval time.Duration
}

// Milvus implements Store against a Milvus server.
type Milvus struct {
	client  client.Client
	address string
}

// NewMilvus connects to Milvus, retrying transient failures under the
// bounded connect policy.
func NewMilvus(ctx context.Context, cfg MilvusConfig) (*Milvus, error) {
	if cfg.Address == "" {
		cfg.Address = "localhost:19530"
	}
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = defaultConnectAttempts
	}
	if cfg.ConnectInterval <= 0 {
		cfg.ConnectInterval = defaultConnectInterval
	}

	var c client.Client
	err := retry.Do(ctx, retry.Policy{
		MaxAttempts: cfg.ConnectAttempts,
		Interval:    cfg.ConnectInterval,
		Classify:    transientConn,
	}, func() error {
		var err error
		c, err = client.NewClient(ctx, client.Config{Address: cfg.Address})
		if err != nil {
			slog.Warn("milvus connect attempt failed", "address", cfg.Address, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus at %s: %w", cfg.Address, err)
	}

	slog.Info("connected to milvus", "address", cfg.Address)
	return &Milvus{client: c, address: cfg.Address}, nil
}

// transientConn treats network-level failures and the usual transient
// gRPC codes as retryable; anything else aborts the connect loop early.
func transientConn(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return true
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	}
	return false
}

func (m *Milvus) Provision(ctx context.Context, collection string, dim int) error {
	exists, err := m.client.HasCollection(ctx, collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", collection, err)
	}
	if exists {
		if err := m.client.DropCollection(ctx, collection); err != nil {
			return fmt.Errorf("drop collection %s: %w", collection, err)
		}
	}

	schema := entity.NewSchema().
		WithName(collection).
		WithDescription("vecmark benchmark collection").
		WithField(entity.NewField().
			WithName(idField).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(false)).
		WithField(entity.NewField().
			WithName(vectorField).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim)))

	if err := m.client.CreateCollection(ctx, schema, 1); err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	return nil
}

func (m *Milvus) InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("id count %d does not match vector count %d", len(ids), len(vectors))
	}
	if len(vectors) == 0 {
		return nil
	}

	idCol := entity.NewColumnInt64(idField, ids)
	vecCol := entity.NewColumnFloatVector(vectorField, len(vectors[0]), vectors)

	if _, err := m.client.Insert(ctx, collection, "", idCol, vecCol); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (m *Milvus) Flush(ctx context.Context, collection string) error {
	if err := m.client.Flush(ctx, collection, false); err != nil {
		return fmt.Errorf("flush %s: %w", collection, err)
	}
	return nil
}

func (m *Milvus) Count(ctx context.Context, collection string) (int64, error) {
	stats, err := m.client.GetCollectionStatistics(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("collection statistics for %s: %w", collection, err)
	}
	count, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse row_count %q: %w", stats["row_count"], err)
	}
	return count, nil
}

func (m *Milvus) BuildIndex(ctx context.Context, collection string, cfg matrix.IndexConfig) error {
	idx, err := buildIndex(cfg)
	if err != nil {
		return err
	}
	if err := m.client.CreateIndex(ctx, collection, vectorField, idx, false); err != nil {
		return fmt.Errorf("create %s index on %s: %w", cfg.Name, collection, err)
	}
	return nil
}

func (m *Milvus) Load(ctx context.Context, collection string) error {
	if err := m.client.LoadCollection(ctx, collection, false); err != nil {
		return fmt.Errorf("load collection %s: %w", collection, err)
	}
	return nil
}

func (m *Milvus) Search(ctx context.Context, collection string, cfg matrix.IndexConfig, vectors [][]float32, topK int) ([][]int64, error) {
	sp, err := searchParam(cfg)
	if err != nil {
		return nil, err
	}

	batch := make([]entity.Vector, len(vectors))
	for i, v := range vectors {
		batch[i] = entity.FloatVector(v)
	}

	results, err := m.client.Search(
		ctx, collection, nil, "", nil, batch,
		vectorField, entity.MetricType(cfg.Metric), topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	ids := make([][]int64, len(results))
	for i, res := range results {
		col, ok := res.IDs.(*entity.ColumnInt64)
		if !ok {
			return nil, fmt.Errorf("unexpected id column type %T", res.IDs)
		}
		ids[i] = col.Data()
	}
	return ids, nil
}

// Version reports the server version, used by the environment checker.
func (m *Milvus) Version(ctx context.Context) (string, error) {
	v, err := m.client.GetVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("milvus version: %w", err)
	}
	return v, nil
}

func (m *Milvus) Close() error {
	return m.client.Close()
}

func buildIndex(cfg matrix.IndexConfig) (entity.Index, error) {
	metric := entity.MetricType(cfg.Metric)
	switch cfg.Name {
	case matrix.IndexFlat:
		return entity.NewIndexFlat(metric)
	case matrix.IndexIvfFlat:
		return entity.NewIndexIvfFlat(metric, cfg.BuildParams["nlist"])
	case matrix.IndexIvfSQ8:
		return entity.NewIndexIvfSQ8(metric, cfg.BuildParams["nlist"])
	case matrix.IndexHNSW:
		return entity.NewIndexHNSW(metric, cfg.BuildParams["M"], cfg.BuildParams["efConstruction"])
	default:
		return nil, fmt.Errorf("no index builder for type %q", cfg.Name)
	}
}

func searchParam(cfg matrix.IndexConfig) (entity.SearchParam, error) {
	switch cfg.Name {
	case matrix.IndexFlat:
		return entity.NewIndexFlatSearchParam()
	case matrix.IndexIvfFlat:
		return entity.NewIndexIvfFlatSearchParam(cfg.SearchParams["nprobe"])
	case matrix.IndexIvfSQ8:
		return entity.NewIndexIvfSQ8SearchParam(cfg.SearchParams["nprobe"])
	case matrix.IndexHNSW:
		return entity.NewIndexHNSWSearchParam(cfg.SearchParams["ef"])
	default:
		return nil, fmt.Errorf("no search params for type %q", cfg.Name)
	}
}
