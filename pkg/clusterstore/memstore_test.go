package clusterstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

func TestMemStore_ListNodesReturnsUpsertedNodes(t *testing.T) {
	s := NewMemStore()
	s.UpsertNode(scheduler.WorkerNode{ID: "n1", Hostname: "n1", Capacity: 10})

	nodes, err := s.ListNodes(context.Background())
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, "n1", nodes[0].ID)
}

func TestMemStore_RemoveNodeDeletes(t *testing.T) {
	s := NewMemStore()
	s.UpsertNode(scheduler.WorkerNode{ID: "n1", Hostname: "n1", Capacity: 10})
	s.RemoveNode("n1")

	nodes, err := s.ListNodes(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestMemStore_TryIncrementLoad_OKUntilCapacity(t *testing.T) {
	s := NewMemStore()
	s.UpsertNode(scheduler.WorkerNode{ID: "n1", Hostname: "n1", Capacity: 2})

	r1, err := s.TryIncrementLoad(context.Background(), "n1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementOK, r1)

	r2, err := s.TryIncrementLoad(context.Background(), "n1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementOK, r2)

	r3, err := s.TryIncrementLoad(context.Background(), "n1")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementAtCapacity, r3)
}

func TestMemStore_TryIncrementLoad_NotFound(t *testing.T) {
	s := NewMemStore()
	result, err := s.TryIncrementLoad(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Equal(t, scheduler.IncrementNotFound, result)
}

func TestMemStore_TryIncrementLoad_NeverOvercommitsUnderConcurrency(t *testing.T) {
	s := NewMemStore()
	s.UpsertNode(scheduler.WorkerNode{ID: "n1", Hostname: "n1", Capacity: 10})

	const attempts = 100
	var wg sync.WaitGroup
	oks := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, _ := s.TryIncrementLoad(context.Background(), "n1")
			oks[i] = result == scheduler.IncrementOK
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range oks {
		if ok {
			count++
		}
	}
	assert.Equal(t, 10, count)
}
