package scheduler

import "context"

// Queue is the external collaborator that downstream worker runtimes
// consume from to learn which node a task was bound to. Publish must be
// idempotent: the Decision Binder may call it more than once for the
// same (taskID, nodeID) pair if a caller retries after an ambiguous
// error, and duplicate delivery to a worker runtime is not acceptable.
type Queue interface {
	Publish(ctx context.Context, taskID, nodeID string) error
}
