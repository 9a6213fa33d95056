package clusterstore

import (
	"context"
	"sync"

	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

// MemStore is an in-memory, mutex-protected scheduler.Store. It is not
// replicated: each process has its own independent view of the fleet.
type MemStore struct {
	mu    sync.Mutex
	nodes map[string]scheduler.WorkerNode
}

var _ scheduler.Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{nodes: make(map[string]scheduler.WorkerNode)}
}

// UpsertNode adds or replaces a node's record. It is not part of
// scheduler.Store; it is how a MemStore-backed deployment's fleet
// registration path feeds node state in.
func (s *MemStore) UpsertNode(node scheduler.WorkerNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node.ID] = node
}

// RemoveNode deletes a node's record, if present.
func (s *MemStore) RemoveNode(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, nodeID)
}

// ListNodes implements scheduler.Store.
func (s *MemStore) ListNodes(ctx context.Context) ([]scheduler.WorkerNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]scheduler.WorkerNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out, nil
}

// TryIncrementLoad implements scheduler.Store. The entire check and
// increment happen under a single lock acquisition, so two concurrent
// callers racing for a node's last unit of capacity can never both
// observe scheduler.IncrementOK.
func (s *MemStore) TryIncrementLoad(ctx context.Context, nodeID string) (scheduler.IncrementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[nodeID]
	if !ok {
		return scheduler.IncrementNotFound, nil
	}
	if n.Load >= n.Capacity {
		return scheduler.IncrementAtCapacity, nil
	}
	n.Load++
	s.nodes[nodeID] = n
	return scheduler.IncrementOK, nil
}
