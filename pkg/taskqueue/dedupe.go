package taskqueue

import "sync"

// dedupeLedger remembers which task IDs have already been published,
// bounded to a fixed capacity so memory stays flat regardless of how
// many tasks a long-running broker sees. Eviction is oldest-first: once
// full, the next new task_id evicts the one published longest ago. A
// task_id evicted before a genuine duplicate arrives would be
// rebroadcast rather than deduplicated, which is an acceptable tradeoff
// for a reference Queue implementation bounded by capacity, not a
// correctness requirement the interface itself makes.
type dedupeLedger struct {
	mu       sync.Mutex
	capacity int
	order    []string
	seen     map[string]struct{}
}

const defaultDedupeCapacity = 4096

func newDedupeLedger(capacity int) *dedupeLedger {
	if capacity <= 0 {
		capacity = defaultDedupeCapacity
	}
	return &dedupeLedger{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// checkAndMark reports whether taskID had already been marked, and marks
// it as seen regardless.
func (d *dedupeLedger) checkAndMark(taskID string) (alreadySeen bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[taskID]; ok {
		return true
	}

	if len(d.order) >= d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	d.seen[taskID] = struct{}{}
	d.order = append(d.order, taskID)
	return false
}
