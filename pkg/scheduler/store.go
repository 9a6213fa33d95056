package scheduler

import "context"

// IncrementResult is the outcome of a single TryIncrementLoad call.
type IncrementResult int

const (
	// IncrementOK means the node's Load was atomically incremented by
	// one and the caller now owns that unit of capacity.
	IncrementOK IncrementResult = iota
	// IncrementAtCapacity means the increment was refused because the
	// node had no remaining capacity at the moment of the attempt, even
	// though it looked eligible in the snapshot the caller filtered
	// against.
	IncrementAtCapacity
	// IncrementNotFound means the node no longer exists in the Store
	// (it left the fleet between the snapshot and the bind attempt).
	// The caller treats this the same as IncrementAtCapacity: a lost
	// race worth retrying the whole attempt over.
	IncrementNotFound
)

// Store is the external collaborator holding authoritative fleet state.
// Implementations must make TryIncrementLoad atomic with respect to
// concurrent callers: two goroutines racing to increment the same node's
// Load when only one unit of capacity remains must not both observe
// IncrementOK.
type Store interface {
	// ListNodes returns a snapshot of every node currently known to the
	// Store, live or dead. The Node Filter is responsible for excluding
	// dead nodes; ListNodes itself does not filter.
	ListNodes(ctx context.Context) ([]WorkerNode, error)

	// TryIncrementLoad attempts to atomically increment nodeID's Load by
	// one, succeeding only if doing so would not push Load above
	// Capacity. A non-nil error indicates a transient failure talking to
	// the Store, distinct from a well-formed IncrementAtCapacity or
	// IncrementNotFound result.
	TryIncrementLoad(ctx context.Context, nodeID string) (IncrementResult, error)
}
