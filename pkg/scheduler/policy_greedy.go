package scheduler

import "math/rand/v2"

// greedyPolicy always picks the same node given the same eligible set:
// the lexicographically smallest hostname. It ignores load and remaining
// capacity entirely beyond what the Node Filter already guarantees (every
// candidate has Remaining() > 0), which makes it cheap to reason about
// but prone to hammering one node until it fills.
type greedyPolicy struct{}

func (p *greedyPolicy) Name() string { return PolicyGreedy }

func (p *greedyPolicy) Choose(eligible []WorkerNode, task Task, _ *rand.Rand) (WorkerNode, error) {
	if len(eligible) == 0 {
		return WorkerNode{}, &CapacityError{TaskID: task.ID, PolicyName: p.Name()}
	}
	best := eligible[0]
	for _, n := range eligible[1:] {
		if n.Hostname < best.Hostname {
			best = n
		}
	}
	return best, nil
}
