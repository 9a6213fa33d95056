package clusterstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

// Note: exercises real Raft/BoltDB machinery over loopback TCP and local
// disk. Skipped in short mode like the comparable integration test this
// package is grounded on.
func TestRaftStore_BootstrapSingleNodeAndIncrement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping raft integration test in short mode")
	}

	store, err := NewRaftStore(RaftConfig{
		NodeID:   "test-node",
		BindAddr: "127.0.0.1:0",
		DataDir:  t.TempDir(),
	})
	assert.NoError(t, err)
	defer func() { _ = store.Shutdown() }()

	assert.NoError(t, store.Bootstrap())

	var leader bool
	for i := 0; i < 50; i++ {
		if store.IsLeader() {
			leader = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	assert.True(t, leader, "expected single-node cluster to elect itself leader")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, store.UpsertNode(ctx, scheduler.WorkerNode{
		ID: "worker-1", Hostname: "worker-1", Capacity: 2,
	}))

	nodes, err := store.ListNodes(ctx)
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, "worker-1", nodes[0].ID)

	r1, err := store.TryIncrementLoad(ctx, "worker-1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementOK, r1)

	r2, err := store.TryIncrementLoad(ctx, "worker-1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementOK, r2)

	r3, err := store.TryIncrementLoad(ctx, "worker-1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementAtCapacity, r3)

	assert.NoError(t, store.RemoveNode(ctx, "worker-1"))
	nodes, err = store.ListNodes(ctx)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}
