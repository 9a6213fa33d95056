package clusterstore

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/raft"

	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

// fsmCommand is one state-change operation carried in the Raft log.
type fsmCommand struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data"`
}

const (
	opUpsertNode     = "upsert_node"
	opRemoveNode     = "remove_node"
	opIncrementLoad  = "increment_load"
)

// incrementLoadResponse is what Apply returns for an opIncrementLoad
// command; RaftStore.TryIncrementLoad reads it back out of the Apply
// future's Response().
type incrementLoadResponse struct {
	Result scheduler.IncrementResult
	Err    error
}

// fleetFSM is the Raft finite state machine backing RaftStore: it applies
// committed log entries to a boltNodeStore and produces/restores
// snapshots of the whole fleet table.
type fleetFSM struct {
	mu    sync.RWMutex
	store *boltNodeStore
}

func newFleetFSM(store *boltNodeStore) *fleetFSM {
	return &fleetFSM{store: store}
}

// Apply implements raft.FSM. It is only ever invoked by the Raft library
// once a log entry is committed, on every replica in the cluster in the
// same order, which is what makes TryIncrementLoad's check-then-set
// linearizable across the whole fleet.
func (f *fleetFSM) Apply(log *raft.Log) interface{} {
	var cmd fsmCommand
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("clusterstore: unmarshal command: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	case opUpsertNode:
		var node scheduler.WorkerNode
		if err := json.Unmarshal(cmd.Data, &node); err != nil {
			return err
		}
		return f.store.putNode(node)

	case opRemoveNode:
		var nodeID string
		if err := json.Unmarshal(cmd.Data, &nodeID); err != nil {
			return err
		}
		return f.store.deleteNode(nodeID)

	case opIncrementLoad:
		var nodeID string
		if err := json.Unmarshal(cmd.Data, &nodeID); err != nil {
			return err
		}
		result, err := f.store.incrementLoad(nodeID)
		return incrementLoadResponse{Result: result, Err: err}

	default:
		return fmt.Errorf("clusterstore: unknown command %q", cmd.Op)
	}
}

// Snapshot implements raft.FSM.
func (f *fleetFSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	nodes, err := f.store.listNodes()
	if err != nil {
		return nil, fmt.Errorf("clusterstore: listing nodes for snapshot: %w", err)
	}
	return &fleetSnapshot{Nodes: nodes}, nil
}

// Restore implements raft.FSM.
func (f *fleetFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var snapshot fleetSnapshot
	if err := json.NewDecoder(rc).Decode(&snapshot); err != nil {
		return fmt.Errorf("clusterstore: decoding snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, node := range snapshot.Nodes {
		if err := f.store.putNode(node); err != nil {
			return fmt.Errorf("clusterstore: restoring node %s: %w", node.ID, err)
		}
	}
	return nil
}

// fleetSnapshot is a point-in-time copy of the whole fleet table.
type fleetSnapshot struct {
	Nodes []scheduler.WorkerNode
}

// Persist implements raft.FSMSnapshot.
func (s *fleetSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

// Release implements raft.FSMSnapshot.
func (s *fleetSnapshot) Release() {}
