package scheduler

import "math/rand/v2"

// leastLoadPolicy is fully deterministic: it picks the node with the
// lowest Load, breaking ties by the highest Remaining(), and breaking any
// further tie by the lexicographically smallest hostname. Two calls over
// the same eligible set always agree.
type leastLoadPolicy struct{}

func (p *leastLoadPolicy) Name() string { return PolicyLeastLoad }

func (p *leastLoadPolicy) Choose(eligible []WorkerNode, task Task, _ *rand.Rand) (WorkerNode, error) {
	if len(eligible) == 0 {
		return WorkerNode{}, &CapacityError{TaskID: task.ID, PolicyName: p.Name()}
	}
	best := eligible[0]
	for _, n := range eligible[1:] {
		if n.Load < best.Load {
			best = n
			continue
		}
		if n.Load > best.Load {
			continue
		}
		if n.Remaining() > best.Remaining() {
			best = n
			continue
		}
		if n.Remaining() < best.Remaining() {
			continue
		}
		if n.Hostname < best.Hostname {
			best = n
		}
	}
	return best, nil
}
