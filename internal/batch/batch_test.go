package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/graphstore"
	"github.com/relgraph/codegraph/model"
)

type fakeStore struct {
	nodeBatches []int
	edgeBatches map[string][]int
	failOnEdge  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{edgeBatches: map[string][]int{}}
}

func (f *fakeStore) EnsureSchema(ctx context.Context) error { return nil }
func (f *fakeStore) Reset(ctx context.Context) error        { return nil }
func (f *fakeStore) Close() error                           { return nil }

func (f *fakeStore) UpsertNodeBatch(ctx context.Context, nodes []graphstore.NodeRecord) error {
	f.nodeBatches = append(f.nodeBatches, len(nodes))
	return nil
}

func (f *fakeStore) UpsertRelationshipBatch(ctx context.Context, relType string, edges []graphstore.EdgeRecord) error {
	if relType == f.failOnEdge {
		return errors.New("boom")
	}
	f.edgeBatches[relType] = append(f.edgeBatches[relType], len(edges))
	return nil
}

func makeNodes(n int) []model.Node {
	out := make([]model.Node, n)
	for i := range out {
		out[i] = model.Node{EntityID: "n", CreatedAt: time.Now()}
	}
	return out
}

func TestWrite_BatchesNodesBySize(t *testing.T) {
	store := newFakeStore()
	nodes := makeNodes(250)
	require.NoError(t, Write(context.Background(), store, nodes, nil, 100, nil))
	assert.Equal(t, []int{100, 100, 50}, store.nodeBatches)
}

func TestWrite_PartitionsEdgesByType(t *testing.T) {
	store := newFakeStore()
	edges := []model.Relationship{
		{EntityID: "e1", Type: model.RelCalls, CreatedAt: time.Now()},
		{EntityID: "e2", Type: model.RelCalls, CreatedAt: time.Now()},
		{EntityID: "e3", Type: model.RelImports, CreatedAt: time.Now()},
	}
	require.NoError(t, Write(context.Background(), store, nil, edges, 100, nil))
	assert.Equal(t, []int{2}, store.edgeBatches["CALLS"])
	assert.Equal(t, []int{1}, store.edgeBatches["IMPORTS"])
}

func TestWrite_PropagatesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failOnEdge = "CALLS"
	edges := []model.Relationship{{EntityID: "e1", Type: model.RelCalls, CreatedAt: time.Now()}}
	err := Write(context.Background(), store, nil, edges, 100, nil)
	require.Error(t, err)
}
