package testing

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/milvus"
)

// MilvusContainer represents a running single-node Milvus test container
type MilvusContainer struct {
	Container testcontainers.Container
	Address   string
}

// NewMilvusContainer starts a Milvus standalone test container
func NewMilvusContainer(ctx context.Context, tb testing.TB) *MilvusContainer {
	tb.Helper()

	mc, err := milvus.Run(ctx, "milvusdb/milvus:v2.3.9")
	if err != nil {
		tb.Fatalf("failed to start milvus container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(mc); err != nil {
			tb.Logf("failed to terminate milvus container: %v", err)
		}
	})

	addr, err := mc.ConnectionString(ctx)
	if err != nil {
		tb.Fatalf("failed to get milvus address: %v", err)
	}

	return &MilvusContainer{
		Container: mc,
		Address:   addr,
	}
}
