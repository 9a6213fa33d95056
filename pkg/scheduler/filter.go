package scheduler

// FilterLiveAndCapable returns the nodes in view that are alive and
// advertise every capability task.Requirements names. This is the first
// of the two Node Filter passes: it never looks at capacity, so its
// result set is stable regardless of concurrent load changes elsewhere
// in the fleet.
func FilterLiveAndCapable(view ClusterView, task Task) []WorkerNode {
	out := make([]WorkerNode, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		if !n.Alive {
			continue
		}
		if !hasAllRequirements(n, task) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func hasAllRequirements(n WorkerNode, task Task) bool {
	for tag := range task.Requirements {
		if !n.HasCapability(tag) {
			return false
		}
	}
	return true
}

// FilterCapacity narrows nodes to those with strictly positive remaining
// capacity. It is the second Node Filter pass, applied only to nodes that
// already passed FilterLiveAndCapable.
func FilterCapacity(nodes []WorkerNode) []WorkerNode {
	out := make([]WorkerNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Remaining() > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Eligible runs both Node Filter passes against view for task, returning
// NoEligibleNodeError if the first pass (liveness and requirements) comes
// back empty. A non-nil, possibly empty slice is returned otherwise; an
// empty result at this point means eligible nodes exist but none has
// spare capacity, which is a policy-level CapacityError, not a
// NoEligibleNodeError.
func Eligible(view ClusterView, task Task) ([]WorkerNode, error) {
	live := FilterLiveAndCapable(view, task)
	if len(live) == 0 {
		return nil, &NoEligibleNodeError{TaskID: task.ID}
	}
	return FilterCapacity(live), nil
}
