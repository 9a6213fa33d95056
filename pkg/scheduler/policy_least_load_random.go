package scheduler

import "math/rand/v2"

// leastLoadRandomPolicy narrows the eligible set to the nodes tied for
// lowest Load, then to those among them tied for highest Remaining(), and
// picks uniformly at random among whatever survives. With no ties it
// degenerates to the same single node leastLoadPolicy would pick.
type leastLoadRandomPolicy struct{}

func (p *leastLoadRandomPolicy) Name() string { return PolicyLeastLoadRandom }

func (p *leastLoadRandomPolicy) Choose(eligible []WorkerNode, task Task, rng *rand.Rand) (WorkerNode, error) {
	if len(eligible) == 0 {
		return WorkerNode{}, &CapacityError{TaskID: task.ID, PolicyName: p.Name()}
	}

	minLoad := eligible[0].Load
	for _, n := range eligible[1:] {
		if n.Load < minLoad {
			minLoad = n.Load
		}
	}
	var byLoad []WorkerNode
	for _, n := range eligible {
		if n.Load == minLoad {
			byLoad = append(byLoad, n)
		}
	}

	maxRemaining := byLoad[0].Remaining()
	for _, n := range byLoad[1:] {
		if n.Remaining() > maxRemaining {
			maxRemaining = n.Remaining()
		}
	}
	var tied []WorkerNode
	for _, n := range byLoad {
		if n.Remaining() == maxRemaining {
			tied = append(tied, n)
		}
	}

	return tied[rng.IntN(len(tied))], nil
}
