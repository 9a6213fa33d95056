package scheduler

import (
	"fmt"
	"math/rand/v2"
)

// Policy selects one node from an already-filtered eligible set. eligible
// has already passed both Node Filter passes (liveness+requirements, then
// capacity); a Policy still must check for the empty case and return
// CapacityError itself, since "eligible set empty" is defined as a
// per-policy contract, not something the caller pre-verifies.
//
// rng is supplied by the caller so that policies needing randomness never
// share a generator across concurrent Schedule calls; deterministic
// policies (Greedy, Least-Load) ignore it.
type Policy interface {
	// Name is the registry key this policy was constructed under.
	Name() string
	// Choose picks one node from eligible for task.
	Choose(eligible []WorkerNode, task Task, rng *rand.Rand) (WorkerNode, error)
}

const (
	PolicyGreedy             = "greedy"
	PolicyLeastLoad          = "least_load"
	PolicyLeastLoadRandom    = "least_load_random"
	PolicyLoadWeightedRandom = "load_weighted_random"
)

// NewPolicy constructs the named policy. name must be one of the closed
// set of registered policy names; epsilon is only consulted by
// load_weighted_random. An unknown name is a configuration error, not a
// runtime scheduling error, and should fail startup rather than be
// retried.
func NewPolicy(name string, epsilon float64) (Policy, error) {
	switch name {
	case PolicyGreedy:
		return &greedyPolicy{}, nil
	case PolicyLeastLoad:
		return &leastLoadPolicy{}, nil
	case PolicyLeastLoadRandom:
		return &leastLoadRandomPolicy{}, nil
	case PolicyLoadWeightedRandom:
		return &loadWeightedRandomPolicy{epsilon: epsilon}, nil
	default:
		return nil, fmt.Errorf("scheduler: unknown policy %q", name)
	}
}
