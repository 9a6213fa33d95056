package scheduler

import (
	"context"

	"github.com/rs/zerolog"
)

// BindOutcome is the result of one Decision Binder bind attempt.
type BindOutcome int

const (
	// BindOutcomeBound means the node's Load was incremented and the
	// decision was published to the Queue; the task is committed to
	// that node.
	BindOutcomeBound BindOutcome = iota
	// BindOutcomeLostRace means another scheduler (or another attempt
	// by this one) claimed the node's last unit of capacity, or the
	// node left the fleet, between the snapshot and the bind. The
	// caller should retry the whole scheduling attempt from a fresh
	// snapshot, not just retry the bind against the same node.
	BindOutcomeLostRace
)

// DecisionBinder performs the atomic commit step of a scheduling attempt:
// increment the chosen node's Load and, only once that succeeds, publish
// the decision to the Queue. It holds no state of its own beyond its
// Store and Queue collaborators.
type DecisionBinder struct {
	store  Store
	queue  Queue
	logger zerolog.Logger
}

// NewDecisionBinder constructs a DecisionBinder over the given Store and
// Queue.
func NewDecisionBinder(store Store, queue Queue, logger zerolog.Logger) *DecisionBinder {
	return &DecisionBinder{store: store, queue: queue, logger: logger}
}

// Bind attempts to commit decision. A StoreUnavailableError return always
// wraps the underlying transport/storage error; a nil error with
// BindOutcomeLostRace means the caller should retry the owning scheduling
// attempt.
func (b *DecisionBinder) Bind(ctx context.Context, decision Decision) (BindOutcome, error) {
	result, err := b.store.TryIncrementLoad(ctx, decision.NodeID)
	if err != nil {
		return 0, &StoreUnavailableError{Op: "try_increment_load", Err: err}
	}

	switch result {
	case IncrementAtCapacity, IncrementNotFound:
		b.logger.Debug().
			Str("task_id", decision.TaskID).
			Str("node_id", decision.NodeID).
			Msg("lost bind race, retrying scheduling attempt")
		return BindOutcomeLostRace, nil
	case IncrementOK:
		if err := b.queue.Publish(ctx, decision.TaskID, decision.NodeID); err != nil {
			return 0, &StoreUnavailableError{Op: "publish", Err: err}
		}
		return BindOutcomeBound, nil
	default:
		return 0, &StoreUnavailableError{Op: "try_increment_load", Err: errUnknownIncrementResult}
	}
}

var errUnknownIncrementResult = unknownIncrementResultError{}

type unknownIncrementResultError struct{}

func (unknownIncrementResultError) Error() string {
	return "store returned an unrecognized IncrementResult"
}
