package clusterstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"

	"github.com/netpulse-io/netpulse/pkg/metrics"
	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

// RaftConfig configures a RaftStore replica.
type RaftConfig struct {
	NodeID   string
	BindAddr string
	DataDir  string

	// ApplyTimeout bounds how long a single Raft log entry submission
	// waits for commit before giving up. Zero uses a 5 second default,
	// matching the teacher's own Raft command timeout.
	ApplyTimeout time.Duration
}

func (c RaftConfig) applyTimeout() time.Duration {
	if c.ApplyTimeout <= 0 {
		return 5 * time.Second
	}
	return c.ApplyTimeout
}

// RaftStore is a scheduler.Store replicated across a cluster of
// scheduler processes with hashicorp/raft. Writes (node registration,
// removal, and TryIncrementLoad) are submitted as Raft log entries and
// only take effect once committed by a quorum; reads are served from the
// local replica's BoltDB-backed copy, which may lag a few milliseconds
// behind the leader on a follower.
type RaftStore struct {
	nodeID       string
	bindAddr     string
	dataDir      string
	applyTimeout time.Duration

	raft  *raft.Raft
	fsm   *fleetFSM
	store *boltNodeStore
}

var _ scheduler.Store = (*RaftStore)(nil)

// NewRaftStore opens the local BoltDB-backed fleet table but does not
// start Raft; call Bootstrap or Join next.
func NewRaftStore(cfg RaftConfig) (*RaftStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("clusterstore: creating data directory: %w", err)
	}

	boltStore, err := newBoltNodeStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &RaftStore{
		nodeID:       cfg.NodeID,
		bindAddr:     cfg.BindAddr,
		dataDir:      cfg.DataDir,
		applyTimeout: cfg.applyTimeout(),
		fsm:          newFleetFSM(boltStore),
		store:        boltStore,
	}, nil
}

func raftTimeouts() *raft.Config {
	config := raft.DefaultConfig()
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.CommitTimeout = 50 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond
	return config
}

func (s *RaftStore) setupRaft() (*raft.NetworkTransport, *raft.FileSnapshotStore, raft.LogStore, raft.StableStore, error) {
	addr, err := net.ResolveTCPAddr("tcp", s.bindAddr)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("clusterstore: resolving bind address: %w", err)
	}

	transport, err := raft.NewTCPTransport(s.bindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("clusterstore: creating transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(s.dataDir, 2, os.Stderr)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("clusterstore: creating snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(s.dataDir, "raft-log.db"))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("clusterstore: creating log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(s.dataDir, "raft-stable.db"))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("clusterstore: creating stable store: %w", err)
	}

	return transport, snapshotStore, logStore, stableStore, nil
}

// Bootstrap initializes a new single-replica Raft cluster with this
// RaftStore as the only member. Other replicas join it afterward via
// AddVoter on the leader.
func (s *RaftStore) Bootstrap() error {
	config := raftTimeouts()
	config.LocalID = raft.ServerID(s.nodeID)

	transport, snapshotStore, logStore, stableStore, err := s.setupRaft()
	if err != nil {
		return err
	}

	r, err := raft.NewRaft(config, s.fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return fmt.Errorf("clusterstore: creating raft: %w", err)
	}
	s.raft = r

	configuration := raft.Configuration{
		Servers: []raft.Server{
			{ID: config.LocalID, Address: transport.LocalAddr()},
		},
	}
	if err := s.raft.BootstrapCluster(configuration).Error(); err != nil {
		return fmt.Errorf("clusterstore: bootstrapping cluster: %w", err)
	}
	return nil
}

// Join starts this RaftStore as a non-bootstrapping replica. The caller
// is still responsible for getting the leader to call AddVoter for
// nodeID/bindAddr; Join only readies this replica's own Raft instance to
// receive that configuration change.
func (s *RaftStore) Join() error {
	config := raftTimeouts()
	config.LocalID = raft.ServerID(s.nodeID)

	transport, snapshotStore, logStore, stableStore, err := s.setupRaft()
	if err != nil {
		return err
	}

	r, err := raft.NewRaft(config, s.fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return fmt.Errorf("clusterstore: creating raft: %w", err)
	}
	s.raft = r
	return nil
}

// AddVoter adds a new replica to the cluster. Must be called on the
// current leader.
func (s *RaftStore) AddVoter(nodeID, address string) error {
	if s.raft == nil {
		return fmt.Errorf("clusterstore: raft not initialized")
	}
	if s.raft.State() != raft.Leader {
		return fmt.Errorf("clusterstore: not the leader, current leader: %s", s.raft.Leader())
	}
	future := s.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(address), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("clusterstore: adding voter: %w", err)
	}
	return nil
}

// IsLeader reports whether this replica currently holds Raft leadership.
// It also keeps the netpulse_clusterstore_is_leader gauge current.
func (s *RaftStore) IsLeader() bool {
	isLeader := s.raft != nil && s.raft.State() == raft.Leader
	if isLeader {
		metrics.RaftLeader.Set(1)
	} else {
		metrics.RaftLeader.Set(0)
	}
	return isLeader
}

// Shutdown stops Raft and closes the underlying BoltDB handle.
func (s *RaftStore) Shutdown() error {
	if s.raft != nil {
		if err := s.raft.Shutdown().Error(); err != nil {
			return fmt.Errorf("clusterstore: shutting down raft: %w", err)
		}
	}
	return s.store.Close()
}

func (s *RaftStore) apply(ctx context.Context, cmd fsmCommand) (interface{}, error) {
	if s.raft == nil {
		return nil, fmt.Errorf("clusterstore: raft not initialized")
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("clusterstore: marshaling command: %w", err)
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RaftApplyDuration)

	future := s.raft.Apply(data, applyTimeoutFromContext(ctx, s.applyTimeout))
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("clusterstore: applying command: %w", err)
	}
	return future.Response(), nil
}

func applyTimeoutFromContext(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			return remaining
		}
	}
	return fallback
}

// UpsertNode registers or replaces a node's fleet record, replicated to
// every voting member of the cluster.
func (s *RaftStore) UpsertNode(ctx context.Context, node scheduler.WorkerNode) error {
	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("clusterstore: marshaling node: %w", err)
	}
	resp, err := s.apply(ctx, fsmCommand{Op: opUpsertNode, Data: data})
	if err != nil {
		return err
	}
	if resp != nil {
		if applyErr, ok := resp.(error); ok && applyErr != nil {
			return applyErr
		}
	}
	return nil
}

// RemoveNode removes a node's fleet record, replicated to every voting
// member of the cluster.
func (s *RaftStore) RemoveNode(ctx context.Context, nodeID string) error {
	data, err := json.Marshal(nodeID)
	if err != nil {
		return err
	}
	resp, err := s.apply(ctx, fsmCommand{Op: opRemoveNode, Data: data})
	if err != nil {
		return err
	}
	if resp != nil {
		if applyErr, ok := resp.(error); ok && applyErr != nil {
			return applyErr
		}
	}
	return nil
}

// ListNodes implements scheduler.Store, reading from this replica's
// local BoltDB copy.
func (s *RaftStore) ListNodes(ctx context.Context) ([]scheduler.WorkerNode, error) {
	return s.store.listNodes()
}

// TryIncrementLoad implements scheduler.Store by submitting the
// increment as a Raft log entry, so every replica's copy of the node's
// Load advances in the same committed order.
func (s *RaftStore) TryIncrementLoad(ctx context.Context, nodeID string) (scheduler.IncrementResult, error) {
	data, err := json.Marshal(nodeID)
	if err != nil {
		return 0, err
	}
	resp, err := s.apply(ctx, fsmCommand{Op: opIncrementLoad, Data: data})
	if err != nil {
		return 0, err
	}
	result, ok := resp.(incrementLoadResponse)
	if !ok {
		return 0, fmt.Errorf("clusterstore: unexpected apply response type %T", resp)
	}
	if result.Err != nil {
		return 0, result.Err
	}
	return result.Result, nil
}
