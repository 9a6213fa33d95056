/*
Package scheduler implements NetPulse's pinned-worker task scheduler: the
component that, for each incoming task, selects exactly one worker node
from a dynamic fleet, subject to per-node capacity and current-load
constraints, under concurrent submission pressure and with pluggable
selection policies.

# Architecture

Each call to Scheduler.Schedule runs the same pipeline:

	┌──────────────────────────────────────────────────────────┐
	│                   Scheduler.Schedule(task)                │
	└────────────────┬───────────────────────────────────────────┘
	                 │
	                 ▼
	┌──────────────────────────────────────────────────────────┐
	│ 1. Snapshot the ClusterView from the Store                │
	│ 2. Node Filter: liveness + requirements, then capacity     │
	│ 3. Policy.Choose on the filtered set                       │
	│ 4. Decision Binder: atomic increment + queue publish       │
	│ 5. On a lost bind race, retry the whole attempt (bounded)  │
	└──────────────────────────────────────────────────────────┘

The scheduler holds no mutable state of its own. All cluster state lives
behind the Store; the only cross-attempt synchronization point is the
atomic increment TryIncrementLoad performs there.

# Policies

Four policies are registered by name (worker.scheduler config key):
"greedy", "least_load", "least_load_random", "load_weighted_random".
Each implements the Policy interface and is chosen from a closed
registry (see NewPolicy) — there is no dynamic/plugin loading, matching
the source system's filesystem-convention discovery with Go's
preference for compile-time-known variant sets.

# Usage

	store := clusterstore.NewMemStore()
	queue := taskqueue.NewBroker()
	cfg := scheduler.DefaultConfig()

	sched, err := scheduler.New(store, queue, cfg, log.WithComponent("scheduler"))
	if err != nil {
		log.Fatal(err.Error())
	}

	decision, err := sched.Schedule(ctx, scheduler.Task{ID: "task-1"})
	switch {
	case errors.As(err, new(*scheduler.NoEligibleNodeError)):
		// no node satisfies requirements
	case errors.As(err, new(*scheduler.CapacityError)):
		// fleet is full
	case err != nil:
		// transient store/queue failure
	}

# Concurrency

Schedule is safe to call from arbitrarily many goroutines at once.
Policy evaluation is pure and in-memory; the only blocking points are
the Store snapshot and the Decision Binder's bind call, both of which
accept a context.Context for cancellation.
*/
package scheduler
