package scheduler

import "math/rand/v2"

// loadWeightedRandomPolicy samples a node with probability proportional to
//
//	w_i = remaining_i^2 * (1 + epsilon * h(hostname_i))
//
// where h maps a hostname to a stable value in [0, 1) via hostnameHash.
// Squaring remaining capacity biases strongly toward emptier nodes
// without the hard cliff of leastLoadPolicy; the epsilon*h term perturbs
// otherwise-exact ties so they don't all resolve toward the same
// hostname ordering run after run.
//
// epsilon is expected to be small (the default config uses 0.1) — it is
// a tie-break nudge, not a second load-balancing signal in its own
// right. If every candidate weight collapses to zero (every remaining_i
// is 0, which FilterCapacity should already have excluded, or epsilon is
// negative enough to zero out all weights) Choose returns CapacityError
// rather than dividing by a zero weight sum.
type loadWeightedRandomPolicy struct {
	epsilon float64
}

func (p *loadWeightedRandomPolicy) Name() string { return PolicyLoadWeightedRandom }

func (p *loadWeightedRandomPolicy) Choose(eligible []WorkerNode, task Task, rng *rand.Rand) (WorkerNode, error) {
	if len(eligible) == 0 {
		return WorkerNode{}, &CapacityError{TaskID: task.ID, PolicyName: p.Name()}
	}

	weights := make([]float64, len(eligible))
	var total float64
	for i, n := range eligible {
		remaining := float64(n.Remaining())
		w := remaining * remaining * (1 + p.epsilon*hostnameHash(n.Hostname))
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return WorkerNode{}, &CapacityError{TaskID: task.ID, PolicyName: p.Name(), EligibleSeen: len(eligible)}
	}

	target := rng.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return eligible[i], nil
		}
	}
	// Floating-point rounding can leave target >= cumulative by an
	// epsilon at the very end of the range; fall back to the last
	// candidate rather than returning a zero-value node.
	return eligible[len(eligible)-1], nil
}
