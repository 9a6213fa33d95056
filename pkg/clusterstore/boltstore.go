package clusterstore

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

var bucketWorkerNodes = []byte("worker_nodes")

// boltNodeStore is the BoltDB-backed node table the Raft FSM applies
// committed commands against. It is never consulted directly by a
// scheduler; all reads and writes to it go through fleetFSM (Apply,
// Snapshot, Restore) or RaftStore's read path, so that every replica's copy only changes in
// lock-step with the Raft log.
type boltNodeStore struct {
	db *bolt.DB
}

func newBoltNodeStore(dataDir string) (*boltNodeStore, error) {
	dbPath := filepath.Join(dataDir, "netpulse-fleet.db")

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("clusterstore: opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWorkerNodes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("clusterstore: creating bucket: %w", err)
	}

	return &boltNodeStore{db: db}, nil
}

func (s *boltNodeStore) Close() error {
	return s.db.Close()
}

func (s *boltNodeStore) putNode(node scheduler.WorkerNode) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkerNodes)
		data, err := json.Marshal(node)
		if err != nil {
			return err
		}
		return b.Put([]byte(node.ID), data)
	})
}

func (s *boltNodeStore) deleteNode(nodeID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkerNodes)
		return b.Delete([]byte(nodeID))
	})
}

func (s *boltNodeStore) listNodes() ([]scheduler.WorkerNode, error) {
	var nodes []scheduler.WorkerNode
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkerNodes)
		return b.ForEach(func(k, v []byte) error {
			var node scheduler.WorkerNode
			if err := json.Unmarshal(v, &node); err != nil {
				return err
			}
			nodes = append(nodes, node)
			return nil
		})
	})
	return nodes, err
}

// incrementLoad performs the read-check-increment-write sequence inside a
// single BoltDB writer transaction. BoltDB allows exactly one writer
// transaction at a time, so this is atomic with respect to every other
// call into the same *bolt.DB without any additional locking — the same
// property MemStore gets from its mutex.
func (s *boltNodeStore) incrementLoad(nodeID string) (scheduler.IncrementResult, error) {
	var result scheduler.IncrementResult
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkerNodes)
		data := b.Get([]byte(nodeID))
		if data == nil {
			result = scheduler.IncrementNotFound
			return nil
		}
		var node scheduler.WorkerNode
		if err := json.Unmarshal(data, &node); err != nil {
			return err
		}
		if node.Load >= node.Capacity {
			result = scheduler.IncrementAtCapacity
			return nil
		}
		node.Load++
		encoded, err := json.Marshal(node)
		if err != nil {
			return err
		}
		result = scheduler.IncrementOK
		return b.Put([]byte(nodeID), encoded)
	})
	return result, err
}
