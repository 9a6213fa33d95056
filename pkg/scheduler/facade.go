package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/netpulse-io/netpulse/pkg/metrics"
)

// Scheduler is the stateless per-task coordinator: given a Store, a
// Queue, a Policy, and a retry budget, it runs the filter-choose-bind
// pipeline for each Schedule call. It holds no per-task state between
// calls and is safe for concurrent use.
type Scheduler struct {
	store  Store
	binder *DecisionBinder
	policy Policy
	cfg    Config
	logger zerolog.Logger
}

// New constructs a Scheduler. cfg.Worker.Scheduler selects the policy;
// an unknown policy name is returned as an error rather than silently
// defaulting, since a misconfigured policy name is a deployment mistake
// that should fail startup.
func New(store Store, queue Queue, cfg Config, logger zerolog.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(cfg.Worker.Scheduler, cfg.Worker.WeightPerturbation)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		store:  store,
		binder: NewDecisionBinder(store, queue, logger),
		policy: policy,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Schedule runs one scheduling attempt for task, retrying the whole
// pipeline (snapshot, filter, choose, bind) up to cfg.Worker.BindRetries
// additional times if the Decision Binder reports a lost bind race. It
// calls the Store's TryIncrementLoad at most BindRetries+1 times per
// call, and never more: a NoEligibleNodeError or a policy-level
// CapacityError observed before any bind attempt is returned immediately,
// without consuming a retry.
func (s *Scheduler) Schedule(ctx context.Context, task Task) (*Decision, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SchedulingLatency)

	maxAttempts := s.cfg.Worker.BindRetries + 1
	var lastEligibleSeen int

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		nodes, err := s.store.ListNodes(ctx)
		if err != nil {
			metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "store_unavailable").Inc()
			return nil, &StoreUnavailableError{Op: "list_nodes", Err: err}
		}
		view := ClusterView{Nodes: nodes}
		observeClusterView(view)

		eligible, err := Eligible(view, task)
		if err != nil {
			metrics.CapacityErrorsTotal.WithLabelValues("no_eligible_node").Inc()
			metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "no_eligible_node").Inc()
			return nil, err
		}
		lastEligibleSeen = len(eligible)

		rng := newAttemptRand()
		node, err := s.policy.Choose(eligible, task, rng)
		if err != nil {
			metrics.CapacityErrorsTotal.WithLabelValues("capacity").Inc()
			metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "capacity").Inc()
			return nil, err
		}

		decision := Decision{
			TaskID:            task.ID,
			NodeID:            node.ID,
			PolicyName:        s.policy.Name(),
			ObservedRemaining: node.Remaining(),
			BindAttemptsUsed:  attempt,
		}

		outcome, err := s.binder.Bind(ctx, decision)
		if err != nil {
			metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "store_unavailable").Inc()
			return nil, err
		}
		if outcome == BindOutcomeBound {
			metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "bound").Inc()
			if attempt > 1 {
				metrics.BindRetriesTotal.WithLabelValues("bound").Inc()
			}
			return &decision, nil
		}

		// BindOutcomeLostRace: loop around for a fresh snapshot.
		metrics.BindRetriesTotal.WithLabelValues("retry").Inc()
	}

	metrics.CapacityErrorsTotal.WithLabelValues("capacity").Inc()
	metrics.DecisionsTotal.WithLabelValues(s.policy.Name(), "capacity").Inc()
	metrics.BindRetriesTotal.WithLabelValues("exhausted").Inc()
	return nil, &CapacityError{
		TaskID:       task.ID,
		PolicyName:   s.policy.Name(),
		EligibleSeen: lastEligibleSeen,
		BindAttempts: maxAttempts,
	}
}

// observeClusterView publishes the fleet-wide gauges from a freshly read
// snapshot. It runs on every scheduling attempt, so the gauges always
// reflect the most recently observed ClusterView rather than a stale
// out-of-band poll.
func observeClusterView(view ClusterView) {
	var aliveCount, deadCount float64
	for _, n := range view.Nodes {
		if n.Alive {
			aliveCount++
		} else {
			deadCount++
		}
		metrics.NodeRemaining.WithLabelValues(n.ID).Set(float64(n.Remaining()))
	}
	metrics.NodesTotal.WithLabelValues("true").Set(aliveCount)
	metrics.NodesTotal.WithLabelValues("false").Set(deadCount)
}
